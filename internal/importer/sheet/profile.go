package sheet

// Profile describes the header layout of a line-item spreadsheet. TotalCol
// is optional; when absent the line total is computed.
type Profile struct {
	Name     string
	DescCol  string
	QtyCol   string
	UnitCol  string
	TotalCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.DescCol, p.QtyCol, p.UnitCol}
}

// profiles are tried in order. Header matching ignores case and
// surrounding spaces.
var profiles = []Profile{
	{
		Name:     "pt",
		DescCol:  "descrição",
		QtyCol:   "quantidade",
		UnitCol:  "valor unitário",
		TotalCol: "total",
	},
	{
		Name:     "pt-preço",
		DescCol:  "descrição",
		QtyCol:   "qtd",
		UnitCol:  "preço unitário",
		TotalCol: "total",
	},
	{
		Name:     "en",
		DescCol:  "description",
		QtyCol:   "quantity",
		UnitCol:  "unit price",
		TotalCol: "total",
	},
}

// separators are tried in order until one yields a known header.
var separators = []rune{';', '\t', ','}
