// Package manifest assembles the README document for a deposit from the
// remote metadata snapshot and renders it into the data folder.
package manifest

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"curator/internal/deposit"
	"curator/internal/figshare"
	"curator/internal/services"
)

// Data is the flat structure handed to the README template.
type Data struct {
	Title       string
	Citation    []string
	DOI         string
	Surname     string
	FirstName   string
	Email       string
	License     string
	FirstAuthor string
	Description string
	References  []string
}

// Build flattens a curation snapshot into template data. An article without a
// reserved identifier gets the configured placeholder so the operator can fill
// it in after minting. The HTML description is converted to plain markdown
// text.
func Build(detail *figshare.CurationDetail, name deposit.Name, doiPlaceholder string) (Data, error) {
	if detail == nil {
		return Data{}, services.Wrap(services.ErrValidation, "manifest", "build", "missing curation snapshot", nil)
	}
	item := detail.Item

	data := Data{
		Title:      item.Title,
		Citation:   SplitCitation(item.Citation),
		DOI:        item.DOI,
		Surname:    name.Surname,
		FirstName:  name.FirstName,
		Email:      name.Email,
		License:    item.License.Name,
		References: append([]string(nil), item.References...),
	}
	if data.DOI == "" {
		data.DOI = doiPlaceholder
	}
	if len(item.Authors) > 0 {
		data.FirstAuthor = item.Authors[0].FullName
	}

	converter := md.NewConverter("", true, nil)
	description, err := converter.ConvertString(item.Description)
	if err != nil {
		// A malformed description should not block the manifest; keep the
		// raw text and let the curator clean it up.
		description = item.Description
	}
	data.Description = strings.TrimSpace(description)

	return data, nil
}

// SplitCitation breaks a single-line citation into display rows, one sentence
// per row, with the trailing identifier row merged into the sentence before
// it. The "):" sequence produced by version suffixes is normalized to a
// period first.
func SplitCitation(citation string) []string {
	citation = strings.TrimSpace(citation)
	if citation == "" {
		return nil
	}

	normalized := strings.ReplaceAll(citation, "):", ").")
	parts := strings.Split(normalized, ". ")
	rows := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasSuffix(part, ".") {
			part += "."
		}
		rows = append(rows, part)
	}
	if len(rows) >= 2 {
		merged := rows[len(rows)-2] + " " + rows[len(rows)-1]
		rows = append(rows[:len(rows)-2], merged)
	}
	return rows
}
