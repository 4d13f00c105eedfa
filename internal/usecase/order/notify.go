package order

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// NotificationOptions mirror the draft's sendEmail/sendSms toggles.
type NotificationOptions struct {
	SendEmail bool
	SendSMS   bool
}

type NotificationResult struct {
	EmailDispatched bool
	SMSDispatched   bool
	FailureMessage  string
}

func (r NotificationResult) HasFailure() bool {
	return strings.TrimSpace(r.FailureMessage) != ""
}

type EmailGateway interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMSGateway interface {
	Send(ctx context.Context, phone, message string) error
}

// VendorNotifier dispatches a created purchase order to its vendor over the
// requested channels. Channel failures are collected, never raised; the
// caller folds them into the order status.
type VendorNotifier struct {
	email EmailGateway
	sms   SMSGateway
}

func NewVendorNotifier(email EmailGateway, sms SMSGateway) *VendorNotifier {
	return &VendorNotifier{email: email, sms: sms}
}

func (n *VendorNotifier) Dispatch(ctx context.Context, po *PurchaseOrder, opts NotificationOptions) NotificationResult {
	var res NotificationResult

	if opts.SendEmail {
		if err := n.sendEmail(ctx, po); err != nil {
			res.FailureMessage = mergeFailure(res.FailureMessage, err.Error())
		} else {
			res.EmailDispatched = true
		}
	}
	if opts.SendSMS {
		if err := n.sendSMS(ctx, po); err != nil {
			res.FailureMessage = mergeFailure(res.FailureMessage, err.Error())
		} else {
			res.SMSDispatched = true
		}
	}
	return res
}

func (n *VendorNotifier) sendEmail(ctx context.Context, po *PurchaseOrder) error {
	if po.VendorEmail == nil || strings.TrimSpace(*po.VendorEmail) == "" {
		return fmt.Errorf("Vendor email address is missing")
	}
	if n.email == nil {
		return fmt.Errorf("Email gateway not configured")
	}
	if err := n.email.Send(ctx, *po.VendorEmail, "Purchase Order "+po.Reference, emailBody(po)); err != nil {
		return fmt.Errorf("Email dispatch failed: %v", err)
	}
	return nil
}

func (n *VendorNotifier) sendSMS(ctx context.Context, po *PurchaseOrder) error {
	if po.VendorPhone == nil || strings.TrimSpace(*po.VendorPhone) == "" {
		return fmt.Errorf("Vendor phone number is missing")
	}
	if n.sms == nil {
		return fmt.Errorf("SMS gateway not configured")
	}
	if err := n.sms.Send(ctx, *po.VendorPhone, smsBody(po)); err != nil {
		return fmt.Errorf("SMS dispatch failed: %v", err)
	}
	return nil
}

func emailBody(po *PurchaseOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", po.VendorName)
	fmt.Fprintf(&b, "Please review purchase order %s for warehouse %s.\n\nItems:\n", po.Reference, po.WarehouseName)
	for _, it := range po.Items {
		fmt.Fprintf(&b, " - %s (SKU: %s) -> %d @ %s = %s\n",
			it.ProductName, it.ProductSKU, it.Quantity, it.UnitPrice.StringFixed(2), it.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", po.SubtotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\n", po.TotalAmount.StringFixed(2))
	if po.ExpectedDeliveryDate != nil {
		fmt.Fprintf(&b, "Requested delivery by: %s\n", po.ExpectedDeliveryDate.Format("2006-01-02"))
	}
	notes := "N/A"
	if po.Notes != nil && strings.TrimSpace(*po.Notes) != "" {
		notes = *po.Notes
	}
	fmt.Fprintf(&b, "\nNotes: %s\n\nThank you,\nSmartShelfX Inventory Team\n", notes)
	return b.String()
}

func smsBody(po *PurchaseOrder) string {
	parts := make([]string, 0, 3)
	for i, it := range po.Items {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s x%d", it.ProductName, it.Quantity))
	}
	items := strings.Join(parts, ", ")
	if len(po.Items) > 3 {
		items += ", ..."
	}
	msg := fmt.Sprintf("PO %s total %s. Items: %s", po.Reference, po.TotalAmount.StringFixed(2), items)
	if po.ExpectedDeliveryDate != nil {
		msg += ". Deliver by " + po.ExpectedDeliveryDate.Format("2006-01-02")
	}
	return msg
}

// LoggingEmailGateway stands in for a real mail provider in environments
// without one.
type LoggingEmailGateway struct{}

func (LoggingEmailGateway) Send(_ context.Context, to, subject, body string) error {
	log.Printf("[EMAIL] to %s: %s\n%s", to, subject, body)
	return nil
}

// LoggingSMSGateway stands in for a real SMS provider in environments
// without one.
type LoggingSMSGateway struct{}

func (LoggingSMSGateway) Send(_ context.Context, phone, message string) error {
	log.Printf("[SMS] to %s: %s", phone, message)
	return nil
}

func mergeFailure(existing, addition string) string {
	if strings.TrimSpace(addition) == "" {
		return existing
	}
	if strings.TrimSpace(existing) == "" {
		return addition
	}
	return existing + "; " + addition
}
