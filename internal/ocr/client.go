package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptItem: OCR sağlayıcısından ayrıştırılan tek fiş kalemi.
type ReceiptItem struct {
	Name       string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// Result: OCR çağrısının ham yanıtı ve ayrıştırılmış kalemleri.
type Result struct {
	Raw   json.RawMessage
	Items []ReceiptItem
}

// Client: fiş görselini metne çeviren dış servis.
type Client interface {
	RecognizeReceipt(ctx context.Context, imagePath string) (*Result, error)
}

// HTTPClient: Clova tarzı receipt OCR API istemcisi.
type HTTPClient struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewHTTPClient(apiURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type ocrRequest struct {
	Version   string     `json:"version"`
	RequestID string     `json:"requestId"`
	Timestamp int64      `json:"timestamp"`
	Images    []ocrImage `json:"images"`
}

type ocrImage struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	Data   string `json:"data"`
}

type ocrResponse struct {
	Images []struct {
		Receipt struct {
			Result struct {
				SubResults []struct {
					Items []struct {
						Name struct {
							Text string `json:"text"`
						} `json:"name"`
						Count struct {
							Text string `json:"text"`
						} `json:"count"`
						Price struct {
							Price struct {
								Text string `json:"text"`
							} `json:"price"`
							UnitPrice struct {
								Text string `json:"text"`
							} `json:"unitPrice"`
						} `json:"price"`
					} `json:"items"`
				} `json:"subResults"`
			} `json:"result"`
		} `json:"receipt"`
	} `json:"images"`
}

func (c *HTTPClient) RecognizeReceipt(ctx context.Context, imagePath string) (*Result, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("fiş görseli okunamadı: %w", err)
	}

	format := strings.TrimPrefix(filepath.Ext(imagePath), ".")
	if format == "" {
		format = "jpg"
	}

	reqBody := ocrRequest{
		Version:   "V2",
		RequestID: fmt.Sprintf("dukkan-%d", time.Now().UnixNano()),
		Timestamp: time.Now().UnixMilli(),
		Images: []ocrImage{{
			Format: format,
			Name:   filepath.Base(imagePath),
			Data:   base64.StdEncoding.EncodeToString(data),
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("OCR isteği hazırlanamadı: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("OCR isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-OCR-SECRET", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR servisine ulaşılamadı: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR servisi %d döndürdü", res.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		return nil, fmt.Errorf("OCR yanıtı okunamadı: %w", err)
	}
	raw := buf.Bytes()

	var parsed ocrResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("OCR yanıtı ayrıştırılamadı: %w", err)
	}

	return &Result{Raw: json.RawMessage(raw), Items: extractItems(&parsed)}, nil
}

// extractItems: yanıt ağacından kalemleri toplar; sayısal alanlardaki
// binlik ayraçları temizlenir, okunamayan kalemler atlanır.
func extractItems(res *ocrResponse) []ReceiptItem {
	var items []ReceiptItem
	for _, img := range res.Images {
		for _, sub := range img.Receipt.Result.SubResults {
			for _, it := range sub.Items {
				name := strings.TrimSpace(it.Name.Text)
				if name == "" {
					continue
				}

				qty := parseAmount(it.Count.Text)
				if qty.IsZero() {
					qty = decimal.NewFromInt(1)
				}
				total := parseAmount(it.Price.Price.Text)
				unit := parseAmount(it.Price.UnitPrice.Text)
				if unit.IsZero() && qty.IsPositive() {
					unit = total.DivRound(qty, 2)
				}

				items = append(items, ReceiptItem{
					Name:       name,
					Quantity:   qty,
					UnitPrice:  unit,
					TotalPrice: total,
				})
			}
		}
	}
	return items
}

func parseAmount(s string) decimal.Decimal {
	cleaned := strings.NewReplacer(" ", "", "₺", "", "TL", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	// "1.250,75" gibi Türkçe biçimde son iki haneli virgül ondalık ayraçtır,
	// aksi halde virgüller binlik ayraç kabul edilir
	if i := strings.LastIndex(cleaned, ","); i >= 0 && len(cleaned)-i-1 == 2 && !strings.Contains(cleaned[i:], ".") {
		cleaned = strings.ReplaceAll(cleaned[:i], ".", "") + "." + cleaned[i+1:]
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
