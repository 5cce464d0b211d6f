package powershop

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/tariffhawk/powershop-rates/internal/pkg/model"
	"github.com/tariffhawk/powershop-rates/internal/pkg/utils"
)

// Period vocabulary with compound names first, so "Weekday Peak" never
// half-matches as bare "Peak".
const (
	periodVocab           = `Off Peak|Weekday Peak|Weekend Peak|Weekday Shoulder|Weekend Shoulder|Peak|Shoulder`
	restrictedPeriodVocab = `Off Peak|Weekday Peak|Weekend Peak|Weekday Shoulder|Weekend Shoulder`
	timeRangePattern      = `[0-9]{1,2}[ap]m\s*-\s*[0-9]{1,2}[ap]m`
)

var (
	tooltipPeriodRgxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(` + periodVocab + `)\s+(` + timeRangePattern + `)\s+(\d+\.\d+)\s*c/kWh`),
		regexp.MustCompile(`(?i)(` + periodVocab + `)[\s\r\n]*(` + timeRangePattern + `)[\s\r\n]*(\d+\.\d+)\s*c/kWh`),
	}

	textPeriodRgxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(` + periodVocab + `)\s+(` + timeRangePattern + `)\s+(\d+\.\d+)\s*c/kWh`),
		regexp.MustCompile(`(?i)(` + periodVocab + `)\s*\n?\s*(` + timeRangePattern + `)\s*\n?\s*(\d+\.\d+)\s*c/kWh`),
		regexp.MustCompile(`(?i)(` + restrictedPeriodVocab + `)[\s\r\n]*(` + timeRangePattern + `)[\s\r\n]*(\d+\.\d+)\s*c/kWh`),
	}

	// loosePeriodRgx is the last-resort pattern: any short word pair next to
	// a time range and a decimal. Matches are only kept when the name looks
	// like a tariff period.
	loosePeriodRgx    = regexp.MustCompile(`(?i)(\w+\s*\w*)\s*(` + timeRangePattern + `)\s*(\d+\.\d+)`)
	looseNameKeywords = []string{"peak", "shoulder", "off"}

	bareRateRgxs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\.\d+)\s*c/kWh`),
		regexp.MustCompile(`(?i)(\d+\.\d+)\s*cents\s*per\s*kWh`),
		regexp.MustCompile(`(?i)Rate:\s*(\d+\.\d+)`),
		regexp.MustCompile(`(?i)Price:\s*(\d+\.\d+)`),
		regexp.MustCompile(`(?i)(\d+\.\d+)\s*c\s*/\s*kWh`),
		// The portal sometimes serves a double-encoded cent sign.
		regexp.MustCompile("(?i)(\\d+\\.\\d+)\\s*Â¢/kWh"),
	}

	decimalRgx = regexp.MustCompile(`(\d+\.\d+)`)

	// Elements whose class hints at tariff content get a scoped second pass.
	sectionTags          = map[string]bool{"div": true, "section": true, "table": true, "span": true, "p": true}
	sectionClassKeywords = []string{"rate", "tariff", "price", "plan", "usage", "time"}

	rateTableKeywords = []string{"rate", "price", "kwh"}
)

// ExtractRates parses a portal page into a rate snapshot. It is a pure
// function of the page body and the already-resolved customer ID; LastUpdated
// is left for the polling service to stamp.
func (c *Client) ExtractRates(rawHTML string) model.RateSnapshot {
	page := parsePage(rawHTML)

	ratePeriods := c.extractRatePeriods(page)
	rates := extractBareRates(page)

	var primary *float64
	if len(rates) > 0 {
		p := rates[0]
		primary = &p
	}

	return model.RateSnapshot{
		Rates:       rates,
		PrimaryRate: primary,
		RatePeriods: ratePeriods,
		CustomerID:  c.customerID,
	}
}

// parsedPage holds the raw page alongside its parse tree and flattened text,
// so the extraction strategies don't re-parse per pass.
type parsedPage struct {
	raw  string
	text string
	root *html.Node
}

func parsePage(rawHTML string) parsedPage {
	// html.Parse only errors when the reader does; a strings.Reader never does.
	root, _ := html.Parse(strings.NewReader(rawHTML))

	return parsedPage{raw: rawHTML, text: nodeText(root), root: root}
}

var periodStrategies = []struct {
	name string
	run  func(parsedPage, *periodSet)
}{
	{"tooltip", matchTooltipPeriods},
	{"page-text", matchTextAndSectionPeriods},
	{"loose", matchLoosePeriods},
}

// extractRatePeriods runs the strategies in precedence order and returns the
// yield of the first one that finds anything. Tooltip data in particular
// overrides whatever the page text would have produced.
func (c *Client) extractRatePeriods(page parsedPage) map[string]model.RatePeriod {
	for _, strategy := range periodStrategies {
		set := newPeriodSet()
		strategy.run(page, set)
		if !set.empty() {
			c.logger.Debug("extracted rate periods",
				zap.String("strategy", strategy.name),
				zap.Int("count", len(set.periods)))
			return set.periods
		}
	}

	return map[string]model.RatePeriod{}
}

func matchTooltipPeriods(page parsedPage, set *periodSet) {
	walkNodes(page.root, func(n *html.Node) {
		tooltip, ok := nodeAttr(n, "data-tooltip")
		if !ok {
			return
		}

		for _, rgx := range tooltipPeriodRgxs {
			for _, text := range []string{tooltip, utils.NormalizeSpaces(tooltip)} {
				if m := rgx.FindStringSubmatch(text); m != nil {
					set.add(m[1], m[2], m[3])
					return // one period per tooltip element
				}
			}
		}
	})
}

func matchTextAndSectionPeriods(page parsedPage, set *periodSet) {
	for _, text := range []string{utils.NormalizeSpaces(page.text), page.text} {
		for _, rgx := range textPeriodRgxs {
			for _, m := range rgx.FindAllStringSubmatch(text, -1) {
				set.add(m[1], m[2], m[3])
			}
		}
	}

	walkNodes(page.root, func(n *html.Node) {
		if n.Type != html.ElementNode || !sectionTags[n.Data] {
			return
		}
		class, ok := nodeAttr(n, "class")
		if !ok || !containsAny(strings.ToLower(class), sectionClassKeywords) {
			return
		}

		sectionText := nodeText(n)
		for _, text := range []string{sectionText, utils.NormalizeSpaces(sectionText)} {
			for _, rgx := range textPeriodRgxs {
				for _, m := range rgx.FindAllStringSubmatch(text, -1) {
					set.add(m[1], m[2], m[3])
				}
			}
		}
	})
}

func matchLoosePeriods(page parsedPage, set *periodSet) {
	for _, m := range loosePeriodRgx.FindAllStringSubmatch(page.text, -1) {
		if !containsAny(strings.ToLower(m[1]), looseNameKeywords) {
			continue
		}
		set.add(m[1], m[2], m[3])
	}
}

// extractBareRates collects every standalone rate value on the page,
// deduplicated and sorted ascending. The cheapest rate becomes the primary.
func extractBareRates(page parsedPage) []float64 {
	seen := map[float64]bool{}
	var rates []float64

	add := func(raw string) {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || seen[rate] {
			return
		}
		seen[rate] = true
		rates = append(rates, rate)
	}

	for _, rgx := range bareRateRgxs {
		for _, m := range rgx.FindAllStringSubmatch(page.text, -1) {
			add(m[1])
		}
	}

	// Tables about rates often hold the value in one cell with the unit in a
	// neighbor, so the patterns above miss them.
	for _, table := range utils.FindTables(page.raw) {
		if !containsAny(table.Text(), rateTableKeywords) {
			continue
		}
		for _, row := range table.AllRows() {
			if len(row) < 2 {
				continue
			}
			rowText := strings.Join(row, " ")
			m := decimalRgx.FindStringSubmatch(rowText)
			if m == nil || !strings.Contains(strings.ToLower(rowText), "kwh") {
				continue
			}
			add(m[1])
		}
	}

	sort.Float64s(rates)

	return rates
}

// periodSet accumulates periods with first-occurrence-wins semantics: a later
// match for an already-seen name, or name plus time range, is dropped.
type periodSet struct {
	periods map[string]model.RatePeriod
	seen    map[string]bool
}

func newPeriodSet() *periodSet {
	return &periodSet{
		periods: map[string]model.RatePeriod{},
		seen:    map[string]bool{},
	}
}

func (ps *periodSet) add(name, timeRange, rateStr string) {
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return
	}

	name = strings.TrimSpace(name)
	timeRange = strings.TrimSpace(timeRange)

	key := name + "_" + timeRange
	if ps.seen[key] {
		return
	}
	if _, exists := ps.periods[name]; exists {
		return
	}

	ps.seen[key] = true
	ps.periods[name] = model.RatePeriod{
		Name:          name,
		TimeRange:     timeRange,
		Rate:          rate,
		RateFormatted: fmt.Sprintf("%v c/kWh", rate),
	}
}

func (ps *periodSet) empty() bool {
	return len(ps.periods) == 0
}

func walkNodes(root *html.Node, visit func(*html.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		walkNodes(child, visit)
	}
}

func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}

	var sb strings.Builder
	walkNodes(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})

	return sb.String()
}

func nodeAttr(n *html.Node, key string) (string, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}

	return "", false
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}

	return false
}
