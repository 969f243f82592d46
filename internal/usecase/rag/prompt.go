package rag

import (
	"strings"

	"github.com/futig/ai-workbench/internal/entity"
)

// RefusalAnswer is what the model is told to reply when the context does not
// contain the answer
const RefusalAnswer = "I don't have enough information in the uploaded documents to answer this question."

const answerInstruction = "You are a helpful assistant that answers questions using only the provided context. " +
	"Use only facts found in the context. Do not use prior knowledge. " +
	"If the context does not contain the answer, reply exactly with: \"" + RefusalAnswer + "\""

func buildAnswerPrompt(question string, hits []entity.ScoredChunk) []entity.ChatMessage {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(h.Chunk.Text)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)

	return []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: answerInstruction},
		{Role: entity.RoleUser, Content: b.String()},
	}
}
