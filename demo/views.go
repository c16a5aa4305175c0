package demo

import (
	"bytes"
	"html/template"

	"github.com/davgren/waltz/httpcontext"
)

// Person is the view model for the HTML rendering example.
type Person struct {
	Name string
}

var personTemplate = template.Must(template.New("person").Parse(
	`<!DOCTYPE html>
<html>
<head><title>Person</title></head>
<body>
<p>Hello, {{.Name}}</p>
</body>
</html>
`))

func renderPerson(ctx *httpcontext.Context, p Person) error {
	var buf bytes.Buffer
	if err := personTemplate.Execute(&buf, p); err != nil {
		return err
	}
	return ctx.HTML(buf.String())
}
