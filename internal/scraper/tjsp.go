package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/textutil"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

const (
	tjspBaseURL   = "https://esaj.tjsp.jus.br"
	tjspSearchURL = tjspBaseURL + "/cpopg/search.do"
)

// TJSPScraper is the adapter for Tribunal de Justiça de São Paulo (e-SAJ).
// It is the reference implementation of the Scraper contract.
type TJSPScraper struct {
	client    *Client
	logger    *logger.Logger
	searchURL string
}

func NewTJSPScraper(client *Client, log *logger.Logger) *TJSPScraper {
	return &TJSPScraper{client: client, logger: log, searchURL: tjspSearchURL}
}

// FormatProcessNumber re-hyphenates 20 canonical digits into the display
// form used by TJSP queries: NNNNNNN-DD.AAAA.J.TR.OOOO. Input that is not
// 20 digits long is returned digits-only, unformatted.
func FormatProcessNumber(processNumber string) string {
	clean := textutil.OnlyDigits(processNumber)
	if len(clean) != 20 {
		return clean
	}
	return fmt.Sprintf("%s-%s.%s.%s.%s.%s",
		clean[0:7], clean[7:9], clean[9:13], clean[13:14], clean[14:16], clean[16:20])
}

func (s *TJSPScraper) searchParams(formatted string) url.Values {
	dashParts := strings.SplitN(formatted, "-", 2)
	dotParts := strings.Split(formatted, ".")

	params := url.Values{}
	params.Set("conversationId", "")
	params.Set("dadosConsulta.localPesquisa.cdLocal", "-1")
	params.Set("cbPesquisa", "NUMPROC")
	params.Set("dadosConsulta.tipoNuProcesso", "UNIFICADO")
	params.Set("numeroDigitoAnoUnificado", dashParts[0])
	params.Set("foroNumeroUnificado", dotParts[len(dotParts)-1])
	params.Set("dadosConsulta.valorConsultaNuUnificado", formatted)
	params.Set("dadosConsulta.valorConsulta", "")
	return params
}

// SearchProcess fetches the e-SAJ status page and extracts the basic
// process fields. Fields absent from the markup stay zero-valued.
func (s *TJSPScraper) SearchProcess(ctx context.Context, processNumber string) (*ProcessFields, error) {
	formatted := FormatProcessNumber(processNumber)

	html, err := s.client.Fetch(ctx, "GET", s.searchURL, s.searchParams(formatted))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	fields := &ProcessFields{
		ProcessNumber: processNumber,
		RawHTML:       html,
		ScrapedAt:     time.Now().UTC(),
	}

	if sel := doc.Find("span#labelAssuntoProcesso"); sel.Length() > 0 {
		fields.Subject = textutil.NormalizeWhitespace(sel.First().Text())
	}
	if sel := doc.Find("span#classeProcesso"); sel.Length() > 0 {
		fields.ClassType = textutil.NormalizeWhitespace(sel.First().Text())
	}
	if sel := doc.Find("div#areaProcesso span"); sel.Length() > 0 {
		fields.Area = textutil.NormalizeWhitespace(sel.First().Text())
	}
	if sel := doc.Find("div#dataHoraDistribuicaoProcesso"); sel.Length() > 0 {
		text := textutil.NormalizeWhitespace(sel.First().Text())
		fields.DistributionDate = textutil.ParseDateFlexible(text, []string{
			"02/01/2006 às 15:04",
			"02/01/2006",
		})
	}
	if sel := doc.Find("span#juizProcesso"); sel.Length() > 0 {
		fields.Judge = textutil.NormalizeWhitespace(sel.First().Text())
	}
	if sel := doc.Find("div#valorAcaoProcesso span"); sel.Length() > 0 {
		fields.CaseValue = textutil.ParseCurrency(textutil.NormalizeWhitespace(sel.First().Text()))
	}

	fields.Plaintiffs = s.extractParties(doc, "Autor")
	fields.Defendants = s.extractParties(doc, "Réu")
	fields.Lawyers = s.extractLawyers(doc)

	return fields, nil
}

// extractParties reads the main party table, keeping rows whose type cell
// matches the wanted role.
func (s *TJSPScraper) extractParties(doc *goquery.Document, partyType string) []database.Party {
	var parties []database.Party
	wanted := strings.ToLower(partyType)

	doc.Find("table#tablePartesPrincipais tr").Each(func(_ int, row *goquery.Selection) {
		typeCell := row.Find("td.tipoParteProcesso")
		if typeCell.Length() == 0 {
			return
		}
		if !strings.Contains(strings.ToLower(typeCell.Text()), wanted) {
			return
		}
		nameCell := row.Find("td.nomeParteProcesso")
		if nameCell.Length() == 0 {
			return
		}
		parties = append(parties, database.Party{
			Type: partyType,
			Name: textutil.NormalizeWhitespace(nameCell.Text()),
		})
	})

	return parties
}

func (s *TJSPScraper) extractLawyers(doc *goquery.Document) []database.Party {
	var lawyers []database.Party

	doc.Find("span.mensagemExibindo").Each(func(_ int, span *goquery.Selection) {
		if !strings.Contains(span.Text(), "Advogad") {
			return
		}
		lawyers = append(lawyers, database.Party{
			Name: textutil.NormalizeWhitespace(span.Text()),
			Type: "advogado",
		})
	})

	return lawyers
}

// GetMovements fetches the status page again and extracts the full
// movement table in page order.
func (s *TJSPScraper) GetMovements(ctx context.Context, processNumber string) ([]ExtractedMovement, error) {
	formatted := FormatProcessNumber(processNumber)

	params := url.Values{}
	params.Set("dadosConsulta.valorConsultaNuUnificado", formatted)
	params.Set("cbPesquisa", "NUMPROC")

	html, err := s.client.Fetch(ctx, "GET", s.searchURL, params)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse movements page: %w", err)
	}

	var movements []ExtractedMovement

	doc.Find("tbody#tabelaTodasMovimentacoes tr.containerMovimentacao").Each(func(_ int, row *goquery.Selection) {
		dateCell := row.Find("td.dataMovimentacao")
		descCell := row.Find("td.descricaoMovimentacao")
		if dateCell.Length() == 0 || descCell.Length() == 0 {
			return
		}

		date := textutil.ParseDateFlexible(
			textutil.NormalizeWhitespace(dateCell.Text()),
			[]string{"02/01/2006"},
		)
		if date == nil {
			return
		}

		movType := "Sem tipo"
		if title := descCell.Find("span.tipoMovimentacao"); title.Length() > 0 {
			movType = textutil.NormalizeWhitespace(title.Text())
			title.Remove()
		}

		movements = append(movements, ExtractedMovement{
			Date:         *date,
			MovementType: movType,
			Description:  textutil.NormalizeWhitespace(descCell.Text()),
		})
	})

	return movements, nil
}

// GetDocuments returns an empty list: the e-SAJ document viewer requires
// authentication, so TJSP exposes no public document listing.
func (s *TJSPScraper) GetDocuments(ctx context.Context, processNumber string) ([]ExtractedDocument, error) {
	return []ExtractedDocument{}, nil
}

func (s *TJSPScraper) Close() {
	s.client.Close()
}
