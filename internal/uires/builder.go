// Package uires builds self-contained, URI-addressed UI resources (HTML
// documents and remote-DOM scripts) from JSONPlaceholder post aggregates,
// and resolves resource URIs back to fetch targets.
package uires

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
)

// MimeHTML is the MIME type of HTML resources.
const MimeHTML = "text/html"

// MimeRemoteDom is the canonical MIME type for remote-DOM script resources.
// The suffix is a versioned capability tag consumed by the host UI.
const MimeRemoteDom = "application/vnd.mcp-ui.remote-dom+javascript; framework=react"

// featuredCommentCount caps how many comments a summary embeds. Comments keep
// their input order; anything past the cap is absent from the output,
// metadata included.
const featuredCommentCount = 2

// listingBodyLimit caps the body excerpt length in the aggregate listing.
const listingBodyLimit = 150

// Mode selects which single-post resource variant to build.
type Mode string

const (
	// ModeHTML builds the HTML summary document.
	ModeHTML Mode = "html"
	// ModeRemote builds the remote-DOM script resource.
	ModeRemote Mode = "remote"
)

// ParseMode interprets a raw mode query value. Anything other than "remote"
// falls back to ModeHTML.
func ParseMode(raw string) Mode {
	if strings.ToLower(raw) == "remote" {
		return ModeRemote
	}
	return ModeHTML
}

// UIResource is a renderable resource addressed by URI, as consumed by the
// host UI surface.
type UIResource struct {
	Type     string           `json:"type"`
	Resource EmbeddedResource `json:"resource"`
}

// EmbeddedResource carries the resource payload. Exactly one of Text or Blob
// is populated.
type EmbeddedResource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// Build dispatches to the builder selected by mode.
func Build(mode Mode, details placeholder.PostDetails) UIResource {
	if mode == ModeRemote {
		return BuildRemoteDom(details)
	}
	return BuildSummary(details)
}

var paragraphSplitter = regexp.MustCompile(`\n+`)

func splitParagraphs(body string) []string {
	var paragraphs []string
	for _, chunk := range paragraphSplitter.Split(body, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			paragraphs = append(paragraphs, chunk)
		}
	}
	return paragraphs
}

type summaryPayload struct {
	PostID int `json:"postId"`
	User   struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
	Comments []struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	} `json:"comments"`
}

const summaryStyle = `
      :root {
        color-scheme: light;
        font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      }
      body { margin: 0; padding: 24px; background: #f8fafc; color: #0f172a; }
      .card {
        background: #ffffff;
        border-radius: 14px;
        padding: 24px;
        box-shadow: 0 18px 40px -24px rgba(15, 23, 42, 0.4);
        border: 1px solid rgba(148, 163, 184, 0.35);
      }
      h2 { margin: 0; font-size: 20px; letter-spacing: -0.01em; }
      p { margin: 8px 0 0; font-size: 14px; color: #334155; }
      .meta {
        display: flex;
        flex-direction: column;
        gap: 2px;
        margin-bottom: 16px;
        font-size: 12px;
        color: #64748b;
      }
      .comments {
        margin-top: 20px;
        padding-top: 16px;
        border-top: 1px solid rgba(148, 163, 184, 0.3);
      }
      .comment {
        padding: 12px;
        border-radius: 10px;
        border: 1px solid rgba(148, 163, 184, 0.25);
        background: rgba(241, 245, 249, 0.6);
        margin-bottom: 12px;
      }
      .comment:last-child { margin-bottom: 0; }
      .comment__author {
        font-weight: 600;
        font-size: 12px;
        color: #1e293b;
        margin-bottom: 6px;
      }
      .actions { display: flex; flex-wrap: wrap; gap: 8px; margin-top: 18px; }
      button {
        border-radius: 999px;
        border: 1px solid transparent;
        padding: 10px 18px;
        font-size: 13px;
        font-weight: 600;
        background: #1d4ed8;
        color: #f8fafc;
        cursor: pointer;
      }
      button.secondary {
        background: transparent;
        color: #1d4ed8;
        border-color: rgba(37, 99, 235, 0.35);
      }`

// BuildSummary builds the HTML summary document for a post aggregate. All
// user-supplied text is escaped before embedding; the body is split into
// paragraphs on newline runs; only the first two comments appear, in input
// order. The assigned URI is a deterministic function of the post id.
func BuildSummary(details placeholder.PostDetails) UIResource {
	post, user, comments := details.Post, details.User, details.Comments

	featured := comments
	if len(featured) > featuredCommentCount {
		featured = featured[:featuredCommentCount]
	}

	payload := summaryPayload{PostID: post.ID}
	payload.User.ID = user.ID
	payload.User.Name = user.Name
	for _, comment := range featured {
		payload.Comments = append(payload.Comments, struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		}{ID: comment.ID, Email: comment.Email})
	}
	payloadJSON, _ := json.Marshal(payload)

	contact := user.Email
	if contact == "" {
		contact = "No disponible"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"es\">\n  <head>\n    <meta charset=\"utf-8\" />\n    <style>")
	b.WriteString(summaryStyle)
	b.WriteString("\n    </style>\n  </head>\n  <body>\n    <article class=\"card\">\n")

	fmt.Fprintf(&b, "      <header class=\"meta\">\n        <span>Autor: %s (@%s)</span>\n        <span>Contacto: %s</span>\n      </header>\n",
		EscapeHTML(user.Name), EscapeHTML(user.Username), EscapeHTML(contact))

	b.WriteString("      <section>\n")
	fmt.Fprintf(&b, "        <h2>%s</h2>\n", EscapeHTML(post.Title))
	for _, paragraph := range splitParagraphs(post.Body) {
		fmt.Fprintf(&b, "        <p>%s</p>\n", EscapeHTML(paragraph))
	}
	b.WriteString("      </section>\n")

	b.WriteString("      <section class=\"comments\">\n")
	b.WriteString("        <h3 style=\"margin:0 0 12px;font-size:14px;color:#1f2937;\">Comentarios recientes</h3>\n")
	if len(featured) == 0 {
		b.WriteString("        <p>No hay comentarios disponibles todavía.</p>\n")
	}
	for _, comment := range featured {
		b.WriteString("        <div class=\"comment\">\n")
		fmt.Fprintf(&b, "          <div class=\"comment__author\">%s</div>\n", EscapeHTML(comment.Email))
		fmt.Fprintf(&b, "          <div style=\"font-size:13px;line-height:1.5;color:#384152;\">%s</div>\n", EscapeHTML(comment.Body))
		b.WriteString("        </div>\n")
	}
	b.WriteString("      </section>\n")

	b.WriteString("      <div class=\"actions\">\n")
	b.WriteString("        <button id=\"notify-action\">Guardar insight</button>\n")
	b.WriteString("        <button id=\"intent-action\" class=\"secondary\">Ver todos los comentarios</button>\n")
	b.WriteString("      </div>\n    </article>\n")

	b.WriteString("    <script>\n      const payload = ")
	b.Write(payloadJSON)
	b.WriteString(";\n")
	b.WriteString(`
      function send(type, message) {
        window.parent?.postMessage({ type, ...message }, '*');
      }

      document.getElementById('notify-action')?.addEventListener('click', () => {
        send('notify', {
          payload: { message: 'Insight guardado para el post #' + payload.postId },
        });
      });

      document.getElementById('intent-action')?.addEventListener('click', () => {
        send('intent', {
          payload: {
            intent: 'open-comments-drawer',
            params: { postId: payload.postId },
          },
        });
      });
    </script>
  </body>
</html>`)

	return UIResource{
		Type: "resource",
		Resource: EmbeddedResource{
			URI:      SummaryURI(post.ID),
			MimeType: MimeHTML,
			Text:     b.String(),
		},
	}
}

type remoteDomPayload struct {
	PostID   int    `json:"postId"`
	Author   string `json:"author"`
	Company  string `json:"company"`
	Username string `json:"username"`
}

// BuildRemoteDom builds the remote-DOM script resource for a post aggregate.
// The script embeds a JSON payload and posts two outbound action messages on
// interaction: a "notify" action and a "tool" action invoking
// loadExtendedProfile with {postId, username}. The front end pattern-matches
// on the type/payload shape of both actions, so those shapes are wire
// contract.
func BuildRemoteDom(details placeholder.PostDetails) UIResource {
	post, user := details.Post, details.User

	company := "Sin compañía"
	if user.Company != nil && user.Company.Name != "" {
		company = user.Company.Name
	}

	payload := remoteDomPayload{
		PostID:   post.ID,
		Author:   user.Name,
		Company:  company,
		Username: user.Username,
	}
	payloadJSON, _ := json.Marshal(payload)

	// Values reach the script only through the JSON payload; the element
	// tree reads from `data`, so no user text is spliced into code.
	script := fmt.Sprintf(`import { createElement } from 'react';

const data = %s;

function sendNotification() {
  window.parent?.postMessage({
    type: 'notify',
    payload: { message: 'Notificación desde: ' + data.author },
  }, '*');
}

function callTool() {
  window.parent?.postMessage({
    type: 'tool',
    payload: {
      toolName: 'loadExtendedProfile',
      params: { postId: data.postId, username: data.username },
    },
  }, '*');
}

export default function PostProfile() {
  return createElement('div', { className: 'remote-post-profile' }, [
    createElement('h2', { key: 'title' }, 'Perfil del autor'),
    createElement('p', { key: 'author' }, 'Autor: ' + data.author),
    createElement('p', { key: 'username' }, 'Usuario: @' + data.username),
    createElement('p', { key: 'company' }, 'Compañía: ' + data.company),
    createElement('p', { key: 'post' }, 'Post ID: ' + data.postId),
    createElement('button', { key: 'notify', onClick: sendNotification }, 'Enviar Notificación'),
    createElement('button', { key: 'tool', onClick: callTool }, 'Llamar Herramienta'),
  ]);
}
`, payloadJSON)

	return UIResource{
		Type: "resource",
		Resource: EmbeddedResource{
			URI:      RemoteDomURI(post.ID),
			MimeType: MimeRemoteDom,
			Text:     script,
		},
	}
}

// BuildListing builds the aggregate HTML listing of the fetched post
// collection. Body excerpts are capped and everything user-supplied is
// escaped.
func BuildListing(listing []placeholder.PostDetails) UIResource {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px;">` + "\n")
	b.WriteString("  <h1 style=\"color: #333; border-bottom: 3px solid #007acc; padding-bottom: 15px;\">Lista de Posts Disponibles</h1>\n")
	fmt.Fprintf(&b, "  <p style=\"color: #666; font-size: 14px;\">Total de posts: %d</p>\n", len(listing))
	b.WriteString("  <div style=\"display: grid; gap: 20px;\">\n")

	for _, details := range listing {
		post, user, comments := details.Post, details.User, details.Comments

		excerpt := post.Body
		if len(excerpt) > listingBodyLimit {
			excerpt = excerpt[:listingBodyLimit] + "..."
		}

		b.WriteString("    <article style=\"border: 1px solid #ddd; border-radius: 8px; padding: 20px; background: #fafafa;\">\n")
		fmt.Fprintf(&b, "      <h2 style=\"color: #007acc; margin: 0 0 8px 0; font-size: 18px;\">Post #%d: %s</h2>\n",
			post.ID, EscapeHTML(post.Title))
		fmt.Fprintf(&b, "      <div style=\"color: #666; font-size: 12px;\">Autor: <strong>%s</strong> (%s)</div>\n",
			EscapeHTML(user.Name), EscapeHTML(user.Email))
		fmt.Fprintf(&b, "      <div style=\"color: #333; line-height: 1.6; margin: 15px 0;\">%s</div>\n", EscapeHTML(excerpt))
		fmt.Fprintf(&b, "      <footer style=\"font-size: 12px; color: #888;\">%d comentarios · URI: %s</footer>\n",
			len(comments), SummaryURI(post.ID))
		b.WriteString("    </article>\n")
	}

	b.WriteString("  </div>\n")
	b.WriteString("  <footer style=\"margin-top: 40px; text-align: center; color: #888; font-size: 12px;\">Datos proporcionados por el servidor MCP via JSONPlaceholder API</footer>\n")
	b.WriteString("</div>\n")

	return UIResource{
		Type: "resource",
		Resource: EmbeddedResource{
			URI:      ListURI,
			MimeType: MimeHTML,
			Text:     b.String(),
		},
	}
}
