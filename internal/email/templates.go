package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const dueDateLayout = "Monday, January 2, 2006"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type followUpReminderEmailData struct {
	baseEmailData
	AgentName  string
	ClientName string
	Company    string
	Subject    string
	DueDate    string
	Notes      string
}

func newFollowUpReminderData(r FollowUpReminder) followUpReminderEmailData {
	agentName := r.AgentName
	if agentName == "" {
		agentName = "there"
	}
	return followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:      subjectFollowUpReminder(r.ClientName),
			Heading:    "Follow-up due",
			Subheading: r.Subject,
		},
		AgentName:  agentName,
		ClientName: r.ClientName,
		Company:    r.Company,
		Subject:    r.Subject,
		DueDate:    r.DueDate.Format(dueDateLayout),
		Notes:      r.Notes,
	}
}

func subjectFollowUpReminder(clientName string) string {
	if clientName == "" {
		return "Follow-up reminder"
	}
	return fmt.Sprintf("Follow up with %s", clientName)
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
