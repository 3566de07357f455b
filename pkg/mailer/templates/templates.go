// Package templates renders the transactional email bodies.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var fs embed.FS

var tmpl = htmpl.Must(htmpl.ParseFS(fs, "*.tmpl"))

// Subjects per template name.
var subjects = map[string]string{
	"welcome":        "Welcome to the Trekora family!",
	"password_reset": "Your password reset token (valid for 10 minutes)",
}

// Render produces subject, plain-text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", "", "", err
	}
	text = textFallback(name, data)
	return subject, text, buf.String(), nil
}

func textFallback(name string, data map[string]any) string {
	switch name {
	case "welcome":
		return fmt.Sprintf("Hi %v, welcome to Trekora! Visit %v to complete your profile.", data["Name"], data["URL"])
	case "password_reset":
		return fmt.Sprintf("Hi %v, submit a PATCH request with your new password to %v. The link is valid for 10 minutes. If you didn't request this, ignore this email.", data["Name"], data["URL"])
	}
	return ""
}
