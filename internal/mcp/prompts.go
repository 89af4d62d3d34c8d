package mcp

// promptCatalog is the static prompt catalog served by prompts/list. The
// prompts are documented for clients; this server does not execute them.
var promptCatalog = []Prompt{
	{
		Name:        "analyze-post",
		Description: "Analiza un post específico y proporciona insights sobre su contenido",
		Arguments: []PromptArgument{
			{
				Name:        "post_id",
				Description: "ID del post a analizar",
				Required:    true,
			},
		},
	},
	{
		Name:        "summarize-posts",
		Description: "Crea un resumen de múltiples posts basado en criterios específicos",
		Arguments: []PromptArgument{
			{
				Name:        "count",
				Description: "Número de posts a incluir en el resumen",
				Required:    false,
			},
		},
	},
}
