package email

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/aquavi/delivery-api/internal/usecase"
)

var subjects = map[usecase.EventKind]string{
	usecase.EventOrderConfirmed:        "Your AquaVi order {{.Order.OrderNumber}} is confirmed",
	usecase.EventOrderDelivered:        "Your AquaVi order {{.Order.OrderNumber}} was delivered",
	usecase.EventOrderCancelled:        "Your AquaVi order {{.Order.OrderNumber}} was cancelled",
	usecase.EventSubscriptionPaused:    "Your AquaVi subscription is paused",
	usecase.EventSubscriptionResumed:   "Your AquaVi subscription is back on",
	usecase.EventSubscriptionCancelled: "Your AquaVi subscription was cancelled",
}

var bodies = map[usecase.EventKind]string{
	usecase.EventOrderConfirmed: `Hi {{.Order.CustomerName}},

Thanks for your order!

Order number: {{.Order.OrderNumber}}
{{range .Order.Items}}  - {{.Name}} ({{.Size}}) x{{.Quantity}} @ {{.Price}}
{{end}}Total: {{.Order.TotalAmount}} ({{.Order.PaymentMethod}})
{{if eq .Order.DeliveryType "delivery"}}Delivery to: {{.Order.DeliveryAddress}}{{else}}Pickup at our store.{{end}}

We'll be in touch when your water is on the way.

AquaVi Water
`,
	usecase.EventOrderDelivered: `Hi {{.Order.CustomerName}},

Your order {{.Order.OrderNumber}} has been delivered. Enjoy!

AquaVi Water
`,
	usecase.EventOrderCancelled: `Hi {{.Order.CustomerName}},

Your order {{.Order.OrderNumber}} has been cancelled. If this wasn't you,
give us a call and we'll sort it out.

AquaVi Water
`,
	usecase.EventSubscriptionPaused: `Hi {{.Subscription.CustomerName}},

Your {{.Subscription.FrequencyLabel}} delivery subscription is paused.
No deliveries are scheduled until you resume it.

AquaVi Water
`,
	usecase.EventSubscriptionResumed: `Hi {{.Subscription.CustomerName}},

Your {{.Subscription.FrequencyLabel}} delivery subscription is active again.
{{if .Subscription.NextDelivery}}Next delivery: {{.Subscription.NextDelivery.Format "Monday, January 2, 2006"}}{{end}}

AquaVi Water
`,
	usecase.EventSubscriptionCancelled: `Hi {{.Subscription.CustomerName}},

Your {{.Subscription.FrequencyLabel}} delivery subscription has been
cancelled. We'd love to have you back any time.

AquaVi Water
`,
}

// TemplateRenderer renders notification requests with text/template. All
// templates are parsed up front so a typo fails at startup, not at send time.
type TemplateRenderer struct {
	subjects map[usecase.EventKind]*template.Template
	bodies   map[usecase.EventKind]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		subjects: map[usecase.EventKind]*template.Template{},
		bodies:   map[usecase.EventKind]*template.Template{},
	}
	for kind, text := range subjects {
		t, err := template.New(string(kind) + ".subject").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse subject %s: %w", kind, err)
		}
		r.subjects[kind] = t
	}
	for kind, text := range bodies {
		t, err := template.New(string(kind) + ".body").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse body %s: %w", kind, err)
		}
		r.bodies[kind] = t
	}
	return r, nil
}

func (r *TemplateRenderer) Render(msg usecase.NotificationMsg) (string, string, error) {
	st, ok := r.subjects[msg.Kind]
	if !ok {
		return "", "", fmt.Errorf("no template for event %q", msg.Kind)
	}
	bt := r.bodies[msg.Kind]

	var subject, body bytes.Buffer
	if err := st.Execute(&subject, msg); err != nil {
		return "", "", fmt.Errorf("render subject %s: %w", msg.Kind, err)
	}
	if err := bt.Execute(&body, msg); err != nil {
		return "", "", fmt.Errorf("render body %s: %w", msg.Kind, err)
	}
	return subject.String(), body.String(), nil
}
