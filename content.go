/*
File: content.go
Version: 1.3.0
Description: Live page collector. Fetches the URL once and feeds the body to
             both the content feature extractor and the HTML security scan.
             Fetch failures yield all-zero features and an empty scan result.
*/

package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const contentMaxBody = 2 << 20

var (
	suspiciousHiddenNameRe = regexp.MustCompile(`(?i)user|email|account|pass|auth|token|id|login`)
	hexEscapeRe            = regexp.MustCompile(`\\x[0-9a-f]{2}`)
	suspiciousScriptURLRe  = regexp.MustCompile(`https?://[^'"]+\.(xyz|tk|ml|ga|cf|gq|top)`)
)

// ContentCollector fetches and inspects the live page. Client is exported for
// test injection.
type ContentCollector struct {
	Client    *http.Client
	UserAgent string
}

func NewContentCollector(timeout time.Duration, userAgent string) *ContentCollector {
	return &ContentCollector{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func emptyHTMLSecurity() HTMLSecurity {
	return HTMLSecurity{RiskFactors: []string{}, SecurityChecks: []string{}}
}

// Collect fetches pageURL and derives content features plus the security
// scan. Never returns an error, failures are logged and yield zero values.
func (cc *ContentCollector) Collect(ctx context.Context, pageURL string) (ContentFeatures, HTMLSecurity) {
	body, ok := cc.fetch(ctx, pageURL)
	if !ok {
		return ContentFeatures{}, emptyHTMLSecurity()
	}
	return AnalyzeContent(pageURL, body)
}

func (cc *ContentCollector) fetch(ctx context.Context, pageURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		LogDebug("[CONTENT] bad request for %s: %v", pageURL, err)
		return "", false
	}
	req.Header.Set("User-Agent", cc.UserAgent)

	resp, err := cc.Client.Do(req)
	if err != nil {
		LogDebug("[CONTENT] fetch of %s failed: %v", pageURL, err)
		return "", false
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, contentMaxBody))
	if err != nil {
		LogDebug("[CONTENT] reading body of %s failed: %v", pageURL, err)
		return "", false
	}
	return string(data), true
}

// AnalyzeContent runs both extraction passes over an already fetched body.
// Split out from Collect so tests can feed HTML directly.
func AnalyzeContent(pageURL, body string) (ContentFeatures, HTMLSecurity) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		LogDebug("[CONTENT] parsing %s failed: %v", pageURL, err)
		return ContentFeatures{PageSizeBytes: float64(len(body))}, emptyHTMLSecurity()
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ContentFeatures{PageSizeBytes: float64(len(body))}, emptyHTMLSecurity()
	}
	baseHost := parsed.Host
	insecureScheme := parsed.Scheme == "http"

	features := extractContentFeatures(doc, body, baseHost)
	security := scanHTMLSecurity(doc, insecureScheme)
	return features, security
}

func extractContentFeatures(doc *goquery.Document, body, baseHost string) ContentFeatures {
	features := ContentFeatures{PageSizeBytes: float64(len(body))}

	features.FormCount = float64(doc.Find("form").Length())
	features.PasswordFieldCount = float64(doc.Find("input[type='password']").Length())

	external := 0
	countExternal := func(value string) {
		if value == "" || strings.HasPrefix(value, "/") ||
			strings.HasPrefix(value, "#") || strings.HasPrefix(value, "data:") {
			return
		}
		if !strings.Contains(value, baseHost) {
			external++
		}
	}
	doc.Find("script[src], img[src], iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		countExternal(src)
	})
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		countExternal(href)
	})
	features.ExternalResourcesCount = float64(external)

	jsBytes := 0
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		jsBytes += len(s.Text())
	})
	if len(body) > 0 {
		features.JSToHTMLRatio = float64(jsBytes) / float64(len(body))
	}

	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	if title != "" {
		lowerHost := strings.ToLower(baseHost)
		labels := strings.Split(lowerHost, ".")
		brand := labels[0]
		if brand == "www" && len(labels) > 1 {
			brand = labels[1]
		}
		if brand != "" && !strings.Contains(title, brand) {
			features.TitleBrandMismatch = 1
		}
		// A known brand in the title of an unrelated host is the stronger
		// impersonation signal.
		for _, term := range brandTerms {
			if strings.Contains(title, term) && !strings.Contains(lowerHost, term) {
				features.TitleBrandMismatch = 1
				break
			}
		}
	}

	if doc.Find("link[rel='icon'], link[rel='shortcut icon']").Length() > 0 {
		features.FaviconExists = 1
	}

	if redirect := metaRefreshTarget(doc); redirect != "" {
		if target, err := url.Parse(redirect); err == nil && target.Host != "" {
			similarity := similarityRatio(strings.ToLower(baseHost), strings.ToLower(target.Host))
			// Similar but not identical hosts are the lookalike redirect case.
			if similarity > 0.6 && similarity < 0.9 {
				features.SimilarDomainRedirect = 1
			}
		}
	}

	return features
}

func metaRefreshTarget(doc *goquery.Document) string {
	content, ok := doc.Find("meta[http-equiv='refresh']").First().Attr("content")
	if !ok {
		return ""
	}
	idx := strings.Index(strings.ToLower(content), "url=")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(content[idx+4:])
}

func scanHTMLSecurity(doc *goquery.Document, insecureScheme bool) HTMLSecurity {
	security := emptyHTMLSecurity()

	insecureForms := 0
	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		if action, ok := s.Attr("action"); ok && strings.HasPrefix(action, "http://") {
			insecureForms++
		}
	})
	if insecureForms > 0 {
		security.ContentScore += 30
		security.RiskFactors = append(security.RiskFactors,
			pluralize(insecureForms, "form submitting to insecure HTTP", "forms submitting to insecure HTTP"))
	}

	passwordInputs := doc.Find("input[type='password']")
	if passwordInputs.Length() > 0 {
		security.ContentScore += 15
		security.RiskFactors = append(security.RiskFactors,
			pluralize(passwordInputs.Length(), "password input field", "password input fields"))

		insecureSubmit := false
		passwordInputs.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			form := s.Closest("form")
			if action, ok := form.Attr("action"); ok && strings.HasPrefix(action, "http://") {
				insecureSubmit = true
				return false
			}
			return true
		})
		if insecureSubmit || (insecureScheme && passwordInputs.Length() > 0) {
			security.ContentScore += 25
			security.RiskFactors = append(security.RiskFactors, "Password submitted over insecure HTTP")
		}
	}

	suspiciousHidden := 0
	doc.Find("input[type='hidden']").Each(func(_ int, s *goquery.Selection) {
		if name, ok := s.Attr("name"); ok && suspiciousHiddenNameRe.MatchString(name) {
			suspiciousHidden++
		}
	})
	if suspiciousHidden > 0 {
		security.ContentScore += 10
		security.RiskFactors = append(security.RiskFactors,
			pluralize(suspiciousHidden, "hidden field with a suspicious name", "hidden fields with suspicious names"))
	}

	obfuscated := 0
	suspiciousURLs := 0
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		code := s.Text()
		if code == "" {
			return
		}
		if strings.Contains(code, "eval(") || hexEscapeRe.MatchString(code) {
			obfuscated++
		}
		if suspiciousScriptURLRe.MatchString(code) {
			suspiciousURLs++
		}
	})
	if obfuscated > 0 {
		security.ContentScore += 20
		security.RiskFactors = append(security.RiskFactors,
			pluralize(obfuscated, "script with potentially obfuscated code", "scripts with potentially obfuscated code"))
	}
	if suspiciousURLs > 0 {
		security.ContentScore += 15
		security.RiskFactors = append(security.RiskFactors,
			pluralize(suspiciousURLs, "script referencing a suspicious URL", "scripts referencing suspicious URLs"))
	}

	if iframes := doc.Find("iframe").Length(); iframes > 3 {
		security.ContentScore += 10
		security.RiskFactors = append(security.RiskFactors,
			pluralize(iframes, "iframe on the page", "iframes on the page"))
	}

	if insecureForms == 0 {
		security.SecurityChecks = append(security.SecurityChecks, "No insecure forms found")
	}
	if passwordInputs.Length() == 0 {
		security.SecurityChecks = append(security.SecurityChecks, "No password inputs found")
	}
	if security.ContentScore < 20 {
		security.SecurityChecks = append(security.SecurityChecks, "Low-risk HTML content")
	}
	if !insecureScheme {
		security.SecurityChecks = append(security.SecurityChecks, "HTTPS protocol used")
	}

	return security
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return "Found 1 " + singular
	}
	return "Found " + strconv.Itoa(count) + " " + plural
}

// similarityRatio approximates difflib's SequenceMatcher ratio using the
// longest common subsequence: 2*LCS / (len(a)+len(b)).
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}
