package server

import (
	"html/template"
	"net/http"
	"time"
)

// statusTemplate is the minimal HTML status page SPEC_FULL.md §2 component 11
// promises, grounded on the teacher's html/template rendering in
// internal/ui/templates.go, scaled down to the one thing this service has to
// report: that it's up, and since when.
var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>unjsify</title>
</head>
<body>
<h1>unjsify diagnostics service</h1>
<p>Status: OK</p>
<p>Started: {{.Started}}</p>
<p>Uptime: {{.Uptime}}</p>
<p><code>POST /rewrite</code> to run a rewrite; <code>GET /healthz</code> for a liveness check.</p>
</body>
</html>
`))

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Started string
		Uptime  string
	}{
		Started: s.startTime.Format(time.RFC3339),
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	statusTemplate.Execute(w, data)
}
