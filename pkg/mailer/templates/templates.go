package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	"time"
)

//go:embed *.tmpl
var fs embed.FS

// Message kinds understood by the renderer. They match the
// NotificationKind values the lifecycle service emits.
const (
	VerifyEmail   = "verify_email"
	Welcome       = "welcome"
	PasswordReset = "password_reset"
)

func funcs() htmpl.FuncMap {
	return htmpl.FuncMap{
		"formatTime": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format("02 January 2006, 15:04 MST")
			case string:
				if parsed, err := time.Parse(time.RFC3339, t); err == nil {
					return parsed.Format("02 January 2006, 15:04 MST")
				}
				return t
			default:
				return fmt.Sprintf("%v", v)
			}
		},
		"upper": strings.ToUpper,
	}
}

var tmpl = htmpl.Must(htmpl.New("emails").Funcs(funcs()).ParseFS(fs, "*.tmpl"))

// Subject returns the subject line for a message kind.
func Subject(kind string) string {
	switch kind {
	case VerifyEmail:
		return "Verify your email address"
	case Welcome:
		return "Welcome aboard"
	case PasswordReset:
		return "Reset your password"
	default:
		return "Notification"
	}
}

// RenderHTML renders the HTML body for a message kind.
func RenderHTML(kind string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, kind+".tmpl", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText builds a plain-text fallback body.
func RenderText(kind string, data map[string]any) string {
	name, _ := data["Name"].(string)
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	switch kind {
	case VerifyEmail:
		return fmt.Sprintf("%s,\n\nPlease verify your email address by opening this link:\n%v\n\nThe link expires at %v.\n", greeting, data["VerifyURL"], data["ExpiresAt"])
	case Welcome:
		return fmt.Sprintf("%s,\n\nYour email address is verified and your account is active. Welcome!\n", greeting)
	case PasswordReset:
		return fmt.Sprintf("%s,\n\nA password reset was requested for your account. Open this link to choose a new password:\n%v\n\nThe link expires at %v. If you did not request this, you can ignore this message.\n", greeting, data["ResetURL"], data["ExpiresAt"])
	default:
		return greeting + ",\n"
	}
}
