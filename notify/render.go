package notify

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// DefaultTemplate is used for channels configured without a template.
const DefaultTemplate = "Booking {{.BookingID}}: room {{.RoomNumber}} ({{.RoomType}}, floor {{.Floor}})"

var compiled = xsync.NewMap[string, *template.Template]()

// Render executes a channel template against the payload.
//
// Templates use text/template syntax over types.NotificationPayload fields, for example
// "Your room is {{.RoomNumber}} on floor {{.Floor}}". Compiled templates are cached by
// their text.
//
// Returns:
//   - string: Rendered message
//   - error: Parse or execution failure
func Render(text string, payload types.NotificationPayload) (string, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultTemplate
	}

	tmpl, ok := compiled.Load(text)
	if !ok {
		parsed, err := template.New("notification").Option("missingkey=error").Parse(text)
		if err != nil {
			return "", fmt.Errorf("parse notification template: %w", err)
		}
		tmpl, _ = compiled.LoadOrStore(text, parsed)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, payload); err != nil {
		return "", fmt.Errorf("render notification template: %w", err)
	}

	return b.String(), nil
}
