package models

// TransactionType: işlem türü. Kategori (gelir/gider) bu türden türetilir,
// asla elle atanmaz.
type TransactionType string

const (
	TransactionTypeSale         TransactionType = "sale"          // satış
	TransactionTypeTax          TransactionType = "tax"           // vergi
	TransactionTypeRefund       TransactionType = "refund"        // iade
	TransactionTypeCost         TransactionType = "cost"          // maliyet
	TransactionTypeOtherExpense TransactionType = "other_expense" // diğer gider
)

type TransactionCategory string

const (
	CategoryIncome  TransactionCategory = "income"  // gelir
	CategoryExpense TransactionCategory = "expense" // gider
)

// Category: türden kategori türetme. sale → income, kalan her şey → expense.
func (t TransactionType) Category() TransactionCategory {
	if t == TransactionTypeSale {
		return CategoryIncome
	}
	return CategoryExpense
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeTax, TransactionTypeRefund,
		TransactionTypeCost, TransactionTypeOtherExpense:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"          // kart
	PaymentMethodCash         PaymentMethod = "cash"          // nakit
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer" // havale
	PaymentMethodOther        PaymentMethod = "other"         // diğer
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// CostCategory: sadece maliyet türü işlemlerde kullanılan alt sınıflandırma.
type CostCategory string

const (
	CostCategoryMaterial CostCategory = "material" // malzeme
	CostCategoryFixed    CostCategory = "fixed"    // sabit gider
	CostCategoryUtility  CostCategory = "utility"  // fatura/abonelik
	CostCategoryLabor    CostCategory = "labor"    // personel
)

func (cc CostCategory) Valid() bool {
	switch cc {
	case CostCategoryMaterial, CostCategoryFixed, CostCategoryUtility, CostCategoryLabor:
		return true
	}
	return false
}

// OrderStatus: sipariş durumu. cancelled terminal durumdur, geri dönüş yok.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Granularity: rapor periyodu (gün / hafta / ay).
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

type OcrJobStatus string

const (
	OcrJobStatusPending    OcrJobStatus = "pending"
	OcrJobStatusProcessing OcrJobStatus = "processing"
	OcrJobStatusCompleted  OcrJobStatus = "completed"
	OcrJobStatusFailed     OcrJobStatus = "failed"
)

type InventoryLogType string

const (
	InventoryLogTypeIn     InventoryLogType = "in"     // stok girişi
	InventoryLogTypeOut    InventoryLogType = "out"    // stok çıkışı
	InventoryLogTypeAdjust InventoryLogType = "adjust" // sayım düzeltmesi
)
