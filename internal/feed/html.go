package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"comparador/internal/model"
)

var ErrNoTable = errors.New("feed html sem <table>")

// ParseHTMLTable lê a primeira <table> da página. A primeira linha é o cabeçalho.
func ParseHTMLTable(html, source string) ([]model.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", source, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoTable)
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, c *goquery.Selection) {
			// links e imagens costumam vir só no atributo
			text := strings.TrimSpace(c.Text())
			if text == "" {
				if href, ok := c.Find("a").Attr("href"); ok {
					text = href
				} else if src, ok := c.Find("img").Attr("src"); ok {
					text = src
				}
			}
			cells = append(cells, text)
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})

	return mapRows(rows, source), nil
}
