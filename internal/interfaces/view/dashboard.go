package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/dreschagin/fleet-status/internal/application/dto"
)

// Dashboard рендерит главную страницу со статусом флота.
// Все классификации (цвета, свежесть) уже вычислены сервером в DTO,
// шаблон только раскладывает их по карточкам узлов.
func Dashboard(view *dto.FleetViewDTO) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}

		if err := renderSummary(w, view); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<main class="fleet-grid">`); err != nil {
			return err
		}
		if len(view.Nodes) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No nodes polled yet. Waiting for the first cycle.</p>`); err != nil {
				return err
			}
		}
		for _, node := range view.Nodes {
			if err := renderNodeCard(w, node); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</main>`); err != nil {
			return err
		}

		_, err := io.WriteString(w, pageFoot)
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Fleet Status</title>
<link rel="stylesheet" href="/static/css/style.css">
</head>
<body>
`

const pageFoot = `<script src="/static/js/app.js"></script>
</body>
</html>
`

func renderSummary(w io.Writer, view *dto.FleetViewDTO) error {
	updated := "never"
	if !view.UpdatedAt.IsZero() {
		updated = view.UpdatedAt.UTC().Format(time.RFC3339)
	}

	_, err := fmt.Fprintf(w, `<header class="fleet-header">
<h1>Fleet Status</h1>
<div class="summary" id="summary">
<span class="pill status-green">healthy %d</span>
<span class="pill status-yellow">degraded %d</span>
<span class="pill status-red">unhealthy %d</span>
<span class="pill status-gray">unreachable %d</span>
<span class="pill">total %d</span>
</div>
<div class="controls">
<button id="refresh-btn" type="button">Refresh now</button>
<span class="updated" id="updated-at">updated %s</span>
</div>
</header>
`,
		view.Summary.Healthy,
		view.Summary.Degraded,
		view.Summary.Unhealthy,
		view.Summary.Errored+view.Summary.Unknown,
		view.Summary.Total,
		templ.EscapeString(updated),
	)
	return err
}

func renderNodeCard(w io.Writer, node *dto.NodeViewDTO) error {
	snapshot := node.Snapshot

	if _, err := fmt.Fprintf(w, `<section class="node-card status-border-%s">
<div class="node-title">
<span class="dot status-%s"></span>
<h2>%s</h2>
<span class="status-label">%s</span>
</div>
`,
		node.StatusColor,
		node.StatusColor,
		templ.EscapeString(node.Name),
		templ.EscapeString(snapshot.Status.String()),
	); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, `<dl class="node-details">
<dt>Instance</dt><dd>%s (%s)</dd>
<dt>Zone</dt><dd>%s</dd>
<dt>Content sync</dt><dd><span class="dot status-%s"></span>%s</dd>
<dt>Memory</dt><dd>%.1f%%</dd>
<dt>Load</dt><dd>%s</dd>
<dt>Disk</dt><dd>%s</dd>
</dl>
`,
		templ.EscapeString(snapshot.Instance.ID),
		templ.EscapeString(snapshot.Instance.Type),
		templ.EscapeString(snapshot.Instance.AvailabilityZone),
		node.SyncColor,
		templ.EscapeString(node.SyncAgeHuman),
		snapshot.System.MemoryUsedPercent,
		templ.EscapeString(snapshot.System.LoadAverage),
		templ.EscapeString(snapshot.System.DiskUsed),
	); err != nil {
		return err
	}

	if node.FellBack {
		if _, err := io.WriteString(w, `<p class="notice">detailed endpoint unavailable, basic health only</p>`); err != nil {
			return err
		}
	}
	if node.FetchError != "" && !node.FellBack {
		if _, err := fmt.Fprintf(w, `<p class="notice error">%s</p>`, templ.EscapeString(node.FetchError)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</section>\n")
	return err
}
