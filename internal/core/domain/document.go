package domain

// DocumentKey is the logical, backend-agnostic name of a persisted document.
type DocumentKey string

const (
	AccountsDocument      DocumentKey = "accounts"
	HistoryDocument       DocumentKey = "history"
	ProductsDocument      DocumentKey = "products"
	RunningShiftsDocument DocumentKey = "running-shifts"
	ShiftHistoryDocument  DocumentKey = "shift-history"
	RecordsDocument       DocumentKey = "records"
	UsersDocument         DocumentKey = "users"
	StoresDocument        DocumentKey = "stores"
)

// documentFileNames maps logical keys to the file names used by file based backends.
// The names match the data folder layout the mini app has always used.
var documentFileNames = map[DocumentKey]string{
	AccountsDocument:      "bank_users.json",
	HistoryDocument:       "bank_history.json",
	ProductsDocument:      "shop_products.json",
	RunningShiftsDocument: "mywork_running.json",
	ShiftHistoryDocument:  "mywork_shifts.json",
	RecordsDocument:       "myinfo_records.json",
	UsersDocument:         "users.json",
	StoresDocument:        "shop_stores.json",
}

// FileName returns the file name a file based backend stores the document under.
// Unknown keys fall back to "<key>.json".
func (k DocumentKey) FileName() string {
	if name, ok := documentFileNames[k]; ok {
		return name
	}
	return string(k) + ".json"
}

func (k DocumentKey) String() string {
	return string(k)
}

// AllDocuments lists every document the application reads or writes.
func AllDocuments() []DocumentKey {
	return []DocumentKey{
		AccountsDocument,
		HistoryDocument,
		ProductsDocument,
		StoresDocument,
		RunningShiftsDocument,
		ShiftHistoryDocument,
		RecordsDocument,
		UsersDocument,
	}
}
