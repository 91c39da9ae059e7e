package rag

import (
	"fmt"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

// Sentinel is the fixed refusal used when the fragments do not cover a query.
const Sentinel = "No tengo esa información cargada aún."

var sentinelFolded = nlp.Fold("no tengo esa información")

// IsSentinel reports whether an answer is the refusal (or empty).
func IsSentinel(answer string) bool {
	f := strings.TrimSpace(nlp.Fold(answer))
	return f == "" || strings.Contains(f, sentinelFolded)
}

// BuildGroundedPrompt returns the system and user messages for a strictly
// grounded answer over snippets.
func BuildGroundedPrompt(botName, query string, snippets []Snippet) (string, string) {
	if strings.TrimSpace(botName) == "" {
		botName = "el asistente"
	}

	var system strings.Builder
	fmt.Fprintf(&system, "Sos %s. RESPONDÉ SOLO con información presente en los fragmentos proporcionados (RAG).\n", botName)
	fmt.Fprintf(&system, "Si la respuesta no está en los fragmentos, decí: \"%s\" (no inventes).\n", Sentinel)
	system.WriteString("Sé conciso. Idioma: español de Argentina.")

	var user strings.Builder
	fmt.Fprintf(&user, "Consulta: %s\n\nFragmentos (RAG):\n", strings.TrimSpace(query))
	for i, s := range snippets {
		fmt.Fprintf(&user, "[%d] %s\n", i+1, strings.TrimSpace(s.Text))
	}
	return system.String(), strings.TrimRight(user.String(), "\n")
}
