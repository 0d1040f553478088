package web

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed assets/*
var assets embed.FS

type templates struct {
	index *template.Template
	page  *template.Template
	game  *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html lang="en"><head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Tic-Tac-Toe</title>
<link rel="stylesheet" href="/assets/style.css"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<script src="https://cdn.jsdelivr.net/npm/canvas-confetti@1.9.3/dist/confetti.browser.min.js"></script>
</head><body>{{template "content" .}}<script src="/assets/app.js"></script></body></html>`))
	// Define the game template within the same set so the page can include it
	template.Must(base.New("game").Parse(gameTemplate))
	page := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="game">{{template "game" .}}</div>
</div>
<p class="share"><a href="/game/{{.ID}}/qr.png">Open on another screen</a></p>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post"><button type="submit">New game</button></form>`))
	// Standalone game template used for fragment rendering
	game := template.Must(template.New("game_only").Parse(gameTemplate))
	return &templates{index: index, page: page, game: game}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const gameTemplate = `
<div id="game" class="game">
  <div class="game-board">
    <div class="status">{{.Status}}</div>
    <div class="board">
      {{range .Cells}}
      <form action="/game/{{$.ID}}/play" method="post" hx-post="/game/{{$.ID}}/play" hx-target="#game" hx-swap="outerHTML">
        <input type="hidden" name="i" value="{{.Index}}">
        {{if .Clickable}}
        <button type="submit" class="{{.Class}}">{{.Mark}}</button>
        {{else}}
        <button type="submit" class="{{.Class}}" disabled>{{.Mark}}</button>
        {{end}}
      </form>
      {{end}}
    </div>
  </div>
  <div class="game-info">
    <ol>
      {{range .History}}
      <li>
        <form action="/game/{{$.ID}}/jump" method="post" hx-post="/game/{{$.ID}}/jump" hx-target="#game" hx-swap="outerHTML">
          <input type="hidden" name="move" value="{{.Move}}">
          <button type="submit"{{if .Selected}} class="selected"{{end}}>{{.Label}}</button>
        </form>
      </li>
      {{end}}
    </ol>
  </div>
  {{if .ShowOverlay}}
  <form class="overlay" action="/game/{{.ID}}/reset" method="post" hx-post="/game/{{.ID}}/reset" hx-target="#game" hx-swap="outerHTML">
    <button type="submit" class="overlay-backdrop" aria-label="Play again"></button>
  </form>
  <div class="winner-popup">
    <h2>{{.Congrats}}</h2>
    <form action="/game/{{.ID}}/reset" method="post" hx-post="/game/{{.ID}}/reset" hx-target="#game" hx-swap="outerHTML">
      <button type="submit">Play again</button>
    </form>
  </div>
  {{end}}
</div>
`
