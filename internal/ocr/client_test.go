package ocr

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleResponse = `{
	"images": [{
		"receipt": {
			"result": {
				"subResults": [{
					"items": [
						{
							"name": {"text": "Süt 1L"},
							"count": {"text": "2"},
							"price": {
								"price": {"text": "90,00"},
								"unitPrice": {"text": "45,00"}
							}
						},
						{
							"name": {"text": "Kahve Çekirdeği"},
							"count": {"text": ""},
							"price": {
								"price": {"text": "350,50"},
								"unitPrice": {"text": ""}
							}
						},
						{
							"name": {"text": ""},
							"count": {"text": "1"},
							"price": {
								"price": {"text": "10,00"},
								"unitPrice": {"text": "10,00"}
							}
						}
					]
				}]
			}
		}
	}]
}`

func TestExtractItems(t *testing.T) {
	var res ocrResponse
	if err := json.Unmarshal([]byte(sampleResponse), &res); err != nil {
		t.Fatalf("örnek yanıt ayrıştırılamadı: %v", err)
	}

	items := extractItems(&res)

	// Adsız kalem atlanır
	if len(items) != 2 {
		t.Fatalf("2 kalem bekleniyordu, %d bulundu", len(items))
	}

	milk := items[0]
	if milk.Name != "Süt 1L" {
		t.Errorf("kalem adı yanlış: %q", milk.Name)
	}
	if !milk.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("adet 2 olmalı, %s bulundu", milk.Quantity)
	}
	if !milk.TotalPrice.Equal(decimal.RequireFromString("90.00")) {
		t.Errorf("toplam 90.00 olmalı, %s bulundu", milk.TotalPrice)
	}

	coffee := items[1]
	// Adet okunamadıysa 1 varsayılır, birim fiyat toplamdan türetilir
	if !coffee.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("adet 1 varsayılmalı, %s bulundu", coffee.Quantity)
	}
	if !coffee.UnitPrice.Equal(decimal.RequireFromString("350.50")) {
		t.Errorf("birim fiyat 350.50 olmalı, %s bulundu", coffee.UnitPrice)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1,250.75", "1250.75"},
		{" 45,00 ", "45.00"},
		{"1.250,75", "1250.75"},
		{"12.50 TL", "12.50"},
		{"", "0"},
		{"abc", "0"},
	}

	for _, tc := range cases {
		if got := parseAmount(tc.in); !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("parseAmount(%q) = %s, %s bekleniyordu", tc.in, got, tc.want)
		}
	}
}
