package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"beigebook/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("beigebook/extract")

var ErrContentNotFound = errors.New("content container not found")

// SkipLines is the number of leading lines (title, date, breadcrumb) that
// every report page repeats before the report body.
const SkipLines = 3

// candidate locates a possible content container in a document.
type candidate struct {
	name   string
	locate func(doc *goquery.Document) *goquery.Selection
}

func selector(sel string) func(doc *goquery.Document) *goquery.Selection {
	return func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(sel).First()
	}
}

// candidates are evaluated in order, the first one found is used.
var candidates = []candidate{
	{name: "report-column", locate: selector(`div[class="col-sm-12 col-lg-8 offset-lg-1"]`)},
	{name: "main", locate: selector("main")},
	{name: "article", locate: selector("article")},
	{
		name: "body",
		// the parser always synthesizes a body, so a body without any
		// visible text is treated as missing.
		locate: func(doc *goquery.Document) *goquery.Selection {
			body := doc.Find("body").First()
			if body.Length() == 0 || strings.TrimSpace(htmlutil.GetText(body.Nodes[0])) == "" {
				return nil
			}
			return body
		},
	},
}

func findContainer(doc *goquery.Document) (*goquery.Selection, string, error) {
	for _, c := range candidates {
		sel := c.locate(doc)
		if sel != nil && sel.Length() > 0 {
			return sel, c.name, nil
		}
	}
	return nil, "", ErrContentNotFound
}

var lineBreakRegex = regexp.MustCompile(`\s*\n\s*`)

// Lines returns the non-empty lines of the report body in `document`, with
// the repeated page header dropped.
func Lines(ctx context.Context, document string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Lines")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	container, name, err := findContainer(doc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("container", name))

	raw := strings.Join(htmlutil.GetTextStrings(container.Nodes[0]), "\n")
	raw = strings.TrimSpace(lineBreakRegex.ReplaceAllString(raw, "\n"))

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) > SkipLines {
		lines = lines[SkipLines:]
	}
	span.SetAttributes(attribute.Int("lines", len(lines)))
	return lines, nil
}

// Extract returns the report body in `document` as newline separated text.
func Extract(ctx context.Context, document string) (string, error) {
	lines, err := Lines(ctx, document)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}
