package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const searchPostsSchema = `{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "Término de búsqueda"
    },
    "limit": {
      "type": "number",
      "description": "Máximo número de resultados",
      "default": 5
    }
  },
  "required": ["query"]
}`

const postStatsSchema = `{
  "type": "object",
  "properties": {
    "post_id": {
      "type": "number",
      "description": "ID del post para obtener estadísticas"
    }
  },
  "required": ["post_id"]
}`

var toolCatalog = []Tool{
	{
		Name:        "search-posts",
		Description: "Busca posts que contengan términos específicos",
		InputSchema: json.RawMessage(searchPostsSchema),
	},
	{
		Name:        "get-post-stats",
		Description: "Obtiene estadísticas detalladas de un post (conteo de palabras, sentimiento, etc.)",
		InputSchema: json.RawMessage(postStatsSchema),
	},
}

const defaultSearchLimit = 5

// Word lists for the naive lexical sentiment classifier. Occurrences are
// counted as raw substring matches over the lowercased title+body.
var (
	positiveWords = []string{"good", "great", "excellent", "amazing", "wonderful", "fantastic", "perfect"}
	negativeWords = []string{"bad", "terrible", "awful", "horrible", "wrong", "error", "problem"}
)

// callTool validates the arguments against the tool's input schema and runs
// it. Validation and execution failures both surface as internal errors
// (-32603) carrying the underlying message, never as transport failures.
func (d *Dispatcher) callTool(ctx context.Context, params json.RawMessage) (CallToolResult, error) {
	var p CallToolParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return CallToolResult{}, invalidParamsError("Invalid params: " + err.Error())
		}
	}
	if p.Name == "" {
		return CallToolResult{}, invalidParamsError("Tool name is required")
	}

	schema, ok := d.toolSchemas[p.Name]
	if !ok {
		return CallToolResult{}, fmt.Errorf("unknown tool: %s", p.Name)
	}

	args := p.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	var instance any
	if err := json.Unmarshal(args, &instance); err != nil {
		return CallToolResult{}, fmt.Errorf("invalid tool arguments: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return CallToolResult{}, fmt.Errorf("invalid arguments for %s: %w", p.Name, err)
	}

	switch p.Name {
	case "search-posts":
		return d.searchPosts(ctx, args)
	case "get-post-stats":
		return d.postStats(ctx, args)
	default:
		return CallToolResult{}, fmt.Errorf("unknown tool: %s", p.Name)
	}
}

type searchPostsArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (d *Dispatcher) searchPosts(ctx context.Context, raw json.RawMessage) (CallToolResult, error) {
	var args searchPostsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return CallToolResult{}, fmt.Errorf("invalid search-posts arguments: %w", err)
	}
	if args.Limit <= 0 {
		args.Limit = defaultSearchLimit
	}

	posts, err := d.fetcher.FetchPosts(ctx, 0)
	if err != nil {
		return CallToolResult{}, fmt.Errorf("failed to fetch posts: %w", err)
	}

	query := strings.ToLower(args.Query)
	var matches []struct {
		id    int
		title string
		body  string
	}
	for _, post := range posts {
		if len(matches) >= args.Limit {
			break
		}
		if strings.Contains(strings.ToLower(post.Title), query) ||
			strings.Contains(strings.ToLower(post.Body), query) {
			matches = append(matches, struct {
				id    int
				title string
				body  string
			}{post.ID, post.Title, post.Body})
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Encontrados %d posts que contienen %q:\n\n", len(matches), args.Query)
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. **Post #%d**: %s\n   %s\n\n", i+1, m.id, m.title, excerpt(m.body, 100))
	}

	return CallToolResult{
		Content: []Content{{Type: "text", Text: strings.TrimRight(b.String(), "\n")}},
	}, nil
}

type postStatsArgs struct {
	PostID int `json:"post_id"`
}

func (d *Dispatcher) postStats(ctx context.Context, raw json.RawMessage) (CallToolResult, error) {
	var args postStatsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return CallToolResult{}, fmt.Errorf("invalid get-post-stats arguments: %w", err)
	}

	post, err := d.fetcher.FetchPost(ctx, args.PostID)
	if err != nil {
		return CallToolResult{}, fmt.Errorf("failed to fetch post %d: %w", args.PostID, err)
	}

	wordCount := len(strings.Fields(post.Body))
	titleWordCount := len(strings.Fields(post.Title))

	text := strings.ToLower(post.Title + " " + post.Body)
	positiveCount := 0
	for _, word := range positiveWords {
		positiveCount += strings.Count(text, word)
	}
	negativeCount := 0
	for _, word := range negativeWords {
		negativeCount += strings.Count(text, word)
	}

	sentiment := "neutral"
	switch {
	case positiveCount > negativeCount:
		sentiment = "positive"
	case negativeCount > positiveCount:
		sentiment = "negative"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Estadísticas del Post #%d\n\n", post.ID)
	fmt.Fprintf(&b, "**Título**: %s\n", post.Title)
	fmt.Fprintf(&b, "**Palabras en título**: %d\n", titleWordCount)
	fmt.Fprintf(&b, "**Palabras en contenido**: %d\n", wordCount)
	fmt.Fprintf(&b, "**Total de palabras**: %d\n", titleWordCount+wordCount)
	fmt.Fprintf(&b, "**Sentimiento**: %s\n", sentiment)
	fmt.Fprintf(&b, "**Palabras positivas**: %d\n", positiveCount)
	fmt.Fprintf(&b, "**Palabras negativas**: %d\n", negativeCount)
	fmt.Fprintf(&b, "**Usuario ID**: %d", post.UserID)

	return CallToolResult{
		Content: []Content{{Type: "text", Text: b.String()}},
	}, nil
}
