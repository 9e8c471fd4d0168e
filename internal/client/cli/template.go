package cli

import (
	"text/template"
)

const restaurantsTemplate = `
=== Restaurants ===
{{- if .Error }}

Failed to load restaurants.
{{- end }}
{{- if eq (len .Restaurants) 0 }}

No restaurants yet.
{{- else }}

Found {{ len .Restaurants }} restaurant(s):
{{ range $i, $r := .Restaurants }}
{{ inc $i }}. {{ $r.Name }}
   {{- if $r.City }}
   City:        {{ $r.City }}
   {{- end }}
   {{- if $r.Description }}
   Description: {{ $r.Description }}
   {{- end }}
{{- end }}
{{- end }}
`

const draftTemplate = `
=== New Restaurant ===

Name:        {{ .Name }}
Description: {{ .Description }}
City:        {{ .City }}
`

const submittedTemplate = `✓ Restaurant submitted: {{ .Name }}{{ if .City }} ({{ .City }}){{ end }}
`

const appendedTemplate = `+ New restaurant: {{ .Name }}{{ if .City }} ({{ .City }}){{ end }}
`

const usageTemplate = `
Commands:
  name <value>            Set restaurant name
  description <value>     Set restaurant description
  city <value>            Set restaurant city
  submit                  Create restaurant from the form
  show                    Show restaurants and the form
  help                    Show this help
  quit                    Exit
`

var templates = template.Must(template.New("cli").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`{{ define "restaurants" }}` + restaurantsTemplate + `{{ end }}` +
	`{{ define "draft" }}` + draftTemplate + `{{ end }}` +
	`{{ define "submitted" }}` + submittedTemplate + `{{ end }}` +
	`{{ define "appended" }}` + appendedTemplate + `{{ end }}` +
	`{{ define "usage" }}` + usageTemplate + `{{ end }}`))
