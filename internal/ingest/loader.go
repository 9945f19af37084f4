// Package ingest loads the knowledge base documents from disk, embeds them
// and writes the vectors into the index. It runs as an offline job, not as
// part of the request path.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeware/chatbot-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

// maxChunkSize caps the length of a single chunk in bytes. Paragraphs are
// accumulated until the next one would exceed it.
const maxChunkSize = 1200

// LoadDir reads every .txt and .docx file in dir and splits each into
// chunks. Other file types are skipped.
func LoadDir(dir string) ([]entity.DocumentChunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var chunks []entity.DocumentChunk
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		path := filepath.Join(dir, e.Name())
		var text string
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", e.Name(), err)
			}
			text = string(data)
		case ".docx":
			text, err = readDocx(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", e.Name(), err)
			}
		default:
			continue
		}

		lang := detectLanguage(e.Name())
		for _, chunk := range splitChunks(text) {
			chunks = append(chunks, entity.DocumentChunk{
				Text:     chunk,
				Source:   e.Name(),
				Language: lang,
			})
		}
	}

	return chunks, nil
}

func readDocx(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// splitChunks breaks the document into paragraph-aligned chunks of at most
// maxChunkSize bytes. A single oversized paragraph becomes its own chunk.
func splitChunks(text string) []string {
	var chunks []string
	var current strings.Builder

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(para)+2 > maxChunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// detectLanguage infers the document language from the file name. Files
// named like faq_bn.txt hold Bangla content; everything else is English.
func detectLanguage(name string) entity.Language {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasSuffix(strings.ToLower(base), "_bn") {
		return entity.LanguageBangla
	}
	return entity.LanguageEnglish
}
