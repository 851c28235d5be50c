package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/jaminalder/codex-gomoku/internal/app"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Gomoku</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.grid{border-collapse:collapse}
.grid td{border:1px solid #888;width:28px;height:28px;padding:0}
.grid button{width:100%;height:100%;border:0;background:none;font-weight:bold}
.grid td.win{background:#9d9}
.grid td.last{outline:2px solid #d80}
.alert{color:#b00}
</style>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Gomoku</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Gomoku</h1>
{{if .Spectator}}<p class="spectator">Watching</p>{{end}}
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board" data-round="{{.Round}}">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{.Status}}</div>
  <table class="grid">
  {{range .Rows}}
    <tr>
    {{range .}}
      <td class="{{.Class}}">
        <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
          <input type="hidden" name="r" value="{{.Row}}">
          <input type="hidden" name="c" value="{{.Col}}">
          <button type="submit"{{if $.Over}} disabled{{end}}>{{.Glyph}}</button>
        </form>
      </td>
    {{end}}
    </tr>
  {{end}}
  </table>
  {{if .Over}}
  <form hx-post="/game/{{.ID}}/new" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">New game?</button>
  </form>
  {{end}}
</div>
`

type cellView struct {
	Row, Col int
	Glyph    string
	Winning  bool
	Last     bool
}

func (c cellView) Class() string {
	switch {
	case c.Winning:
		return "win"
	case c.Last:
		return "last"
	default:
		return ""
	}
}

type boardView struct {
	ID     string
	Round  int
	Rows   [][]cellView
	Status string
	Over   bool
	Error  string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	v := boardView{
		ID:     gs.ID,
		Round:  gs.Round,
		Status: gs.Status.Message(),
		Over:   gs.Status.Over(),
		Error:  errMsg,
		Rows:   make([][]cellView, len(gs.Board)),
	}
	last, hasLast := gs.LastMove()
	for r, row := range gs.Board {
		v.Rows[r] = make([]cellView, len(row))
		for c, m := range row {
			v.Rows[r][c] = cellView{
				Row:     r,
				Col:     c,
				Glyph:   m.Glyph(),
				Winning: gs.IsWinning(r, c),
				Last:    hasLast && last.Position.Row == r && last.Position.Col == c,
			}
		}
	}
	return v
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	// Generate UUIDv4 for player ID
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
