package resend

import (
	"bytes"
	"html/template"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	ApiKey string
	Email  string
}

const htmlTemplate = `
<p>These habits are due today ({{.Day}}) and their streaks will break if
they go unfinished:</p>
<ul>
{{range .Habits}}
  <li>{{.}}</li>
{{end}}
</ul>
`

func (r *ResendNotifier) SendNudge(habits []string, day string) error {
	tmpl, err := template.New("email").Parse(htmlTemplate)
	if err != nil {
		return err
	}

	data := struct {
		Habits []string
		Day    string
	}{
		Habits: habits,
		Day:    day,
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	client := resend.NewClient(r.ApiKey)
	params := &resend.SendEmailRequest{
		From:    "onboarding@resend.dev",
		To:      []string{r.Email},
		Subject: "Habit streaks at risk today",
		Html:    buf.String(),
	}

	_, err = client.Emails.Send(params)
	return err
}
