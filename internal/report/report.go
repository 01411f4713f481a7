// Package report renders consolidated account and curation review views as
// tables, both for terminal display and as files archived with a deposit's
// metadata.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"curator/internal/figshare"
	"curator/internal/logging"
	"curator/internal/services"
)

const (
	curationReportName = "curation_report.txt"
	accountsCSVName    = "accounts.csv"
)

// Generator writes report files into a deposit's metadata folder.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator builds a report generator.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{logger: logger.With(logging.String(logging.FieldComponent, "report"))}
}

// RenderAccounts formats consolidated account records as a table.
func RenderAccounts(accounts []figshare.AccountDetail) string {
	rows := make([][]string, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, []string{
			strconv.FormatInt(account.ID, 10),
			account.Email,
			account.FirstName + " " + account.LastName,
			account.Group,
			strconv.Itoa(account.Articles),
			strconv.Itoa(account.Projects),
			strconv.Itoa(account.Collections),
			yesNo(account.Admin),
			yesNo(account.Reviewer),
		})
	}
	return renderTable(
		[]string{"ID", "Email", "Name", "Group", "Articles", "Projects", "Collections", "Admin", "Reviewer"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

// RenderReviews formats curation review listings as a table.
func RenderReviews(reviews []figshare.CurationReview) string {
	rows := make([][]string, 0, len(reviews))
	for _, review := range reviews {
		rows = append(rows, []string{
			strconv.FormatInt(review.ID, 10),
			strconv.FormatInt(review.ArticleID, 10),
			strconv.Itoa(review.Version),
			review.Status,
			review.CreatedDate,
			review.ModifiedDate,
		})
	}
	return renderTable(
		[]string{"Review", "Article", "Version", "Status", "Created", "Modified"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

// RenderComments formats reviewer comments as a table.
func RenderComments(comments []figshare.CurationComment) string {
	rows := make([][]string, 0, len(comments))
	for _, comment := range comments {
		rows = append(rows, []string{
			strconv.FormatInt(comment.ID, 10),
			strconv.FormatInt(comment.AccountID, 10),
			comment.Type,
			comment.Text,
		})
	}
	return renderTable(
		[]string{"ID", "Account", "Type", "Comment"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
	)
}

// WriteCurationReport archives the review snapshot and its comments as a
// plain-text report in the metadata folder, returning the file path.
func (g *Generator) WriteCurationReport(metadataDir string, detail *figshare.CurationDetail, comments []figshare.CurationComment) (string, error) {
	if detail == nil {
		return "", services.Wrap(services.ErrValidation, "report", "curation", "missing curation snapshot", nil)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Curation report for article %d\n\n", detail.ArticleID)
	fmt.Fprintf(&builder, "Title:  %s\n", detail.Item.Title)
	fmt.Fprintf(&builder, "Status: %s\n\n", detail.Status)
	builder.WriteString(RenderReviews([]figshare.CurationReview{detail.CurationReview}))
	builder.WriteString("\n\n")
	if len(comments) > 0 {
		builder.WriteString("Reviewer comments:\n")
		builder.WriteString(RenderComments(comments))
		builder.WriteString("\n")
	} else {
		builder.WriteString("No reviewer comments.\n")
	}

	path := filepath.Join(metadataDir, curationReportName)
	if err := os.WriteFile(path, []byte(builder.String()), 0o644); err != nil {
		return "", services.Wrap(services.ErrTransport, "report", "curation", "write report", err)
	}
	g.logger.Info("curation report written", logging.String("path", path))
	return path, nil
}

// WriteAccountsCSV exports consolidated account records for spreadsheet use.
func (g *Generator) WriteAccountsCSV(dir string, accounts []figshare.AccountDetail) (string, error) {
	path := filepath.Join(dir, accountsCSVName)
	file, err := os.Create(path)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "report", "accounts", "create csv", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"id", "email", "first_name", "last_name", "group", "articles", "projects", "collections", "admin", "reviewer"}); err != nil {
		return "", services.Wrap(services.ErrTransport, "report", "accounts", "write csv header", err)
	}
	for _, account := range accounts {
		record := []string{
			strconv.FormatInt(account.ID, 10),
			account.Email,
			account.FirstName,
			account.LastName,
			account.Group,
			strconv.Itoa(account.Articles),
			strconv.Itoa(account.Projects),
			strconv.Itoa(account.Collections),
			yesNo(account.Admin),
			yesNo(account.Reviewer),
		}
		if err := writer.Write(record); err != nil {
			return "", services.Wrap(services.ErrTransport, "report", "accounts", "write csv row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", services.Wrap(services.ErrTransport, "report", "accounts", "flush csv", err)
	}
	g.logger.Info("accounts export written", logging.String("path", path))
	return path, nil
}

func yesNo(flag bool) string {
	if flag {
		return "yes"
	}
	return "no"
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
