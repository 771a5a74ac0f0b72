package refdata

// Default returns the compiled-in reference tables. Price and zone values
// reflect the carrier's 2026 international tariffs.
func Default() *Tables {
	return &Tables{
		Countries: []Country{
			{Code: "US", Name: "United States", DialCode: "+1"},
			{Code: "GB", Name: "United Kingdom", DialCode: "+44"},
			{Code: "DE", Name: "Germany", DialCode: "+49"},
			{Code: "FR", Name: "France", DialCode: "+33"},
			{Code: "PL", Name: "Poland", DialCode: "+48"},
			{Code: "CA", Name: "Canada", DialCode: "+1"},
			{Code: "AU", Name: "Australia", DialCode: "+61"},
			{Code: "PH", Name: "Philippines", DialCode: "+63"},
			{Code: "JP", Name: "Japan", DialCode: "+81"},
			{Code: "CN", Name: "China", DialCode: "+86"},
			{Code: "IT", Name: "Italy", DialCode: "+39"},
			{Code: "ES", Name: "Spain", DialCode: "+34"},
			{Code: "NL", Name: "Netherlands", DialCode: "+31"},
			{Code: "BE", Name: "Belgium", DialCode: "+32"},
			{Code: "AT", Name: "Austria", DialCode: "+43"},
			{Code: "CH", Name: "Switzerland", DialCode: "+41"},
			{Code: "CZ", Name: "Czech Republic", DialCode: "+420"},
			{Code: "SK", Name: "Slovakia", DialCode: "+421"},
			{Code: "HU", Name: "Hungary", DialCode: "+36"},
			{Code: "RO", Name: "Romania", DialCode: "+40"},
			{Code: "BG", Name: "Bulgaria", DialCode: "+359"},
			{Code: "TR", Name: "Turkey", DialCode: "+90"},
			{Code: "IL", Name: "Israel", DialCode: "+972"},
			{Code: "AE", Name: "United Arab Emirates", DialCode: "+971"},
			{Code: "KR", Name: "South Korea", DialCode: "+82"},
			{Code: "SG", Name: "Singapore", DialCode: "+65"},
			{Code: "MY", Name: "Malaysia", DialCode: "+60"},
			{Code: "TH", Name: "Thailand", DialCode: "+66"},
			{Code: "VN", Name: "Vietnam", DialCode: "+84"},
			{Code: "IN", Name: "India", DialCode: "+91"},
			{Code: "BR", Name: "Brazil", DialCode: "+55"},
			{Code: "MX", Name: "Mexico", DialCode: "+52"},
			{Code: "AR", Name: "Argentina", DialCode: "+54"},
			{Code: "SE", Name: "Sweden", DialCode: "+46"},
			{Code: "NO", Name: "Norway", DialCode: "+47"},
			{Code: "DK", Name: "Denmark", DialCode: "+45"},
			{Code: "FI", Name: "Finland", DialCode: "+358"},
			{Code: "PT", Name: "Portugal", DialCode: "+351"},
			{Code: "GR", Name: "Greece", DialCode: "+30"},
			{Code: "IE", Name: "Ireland", DialCode: "+353"},
			{Code: "NZ", Name: "New Zealand", DialCode: "+64"},
		},
		ShipmentTypes: []ShipmentType{
			{Code: "PRIME", Name: "PRIME international express", MaxWeight: 30000, CalcType: "SMALL_PACKAGE_PRIME", PackageType: "PRIME", RequiresTracked: true, RequiresAvia: true},
			{Code: "SMALL_BAG", Name: "Small bag", MaxWeight: 2000, CalcType: "SMALL_PACKAGE", PackageType: "SMALL_BAG"},
			{Code: "PARCEL", Name: "Parcel", MaxWeight: 30000, CalcType: "PARCEL", PackageType: "PARCEL"},
			{Code: "EMS", Name: "EMS Express", MaxWeight: 30000, CalcType: "EMS", PackageType: "EMS"},
			{Code: "LETTER", Name: "Letter", MaxWeight: 500, CalcType: "LETTER", PackageType: "LETTER"},
			{Code: "BANDEROLE", Name: "Banderole", MaxWeight: 2000, CalcType: "BANDEROLE", PackageType: "BANDEROLE"},
		},
		Categories: []Category{
			{Code: "GIFT", Name: "Gift"},
			{Code: "SALE_OF_GOODS", Name: "Sale of goods"},
			{Code: "COMMERCIAL_SAMPLE", Name: "Commercial sample"},
			{Code: "RETURNING_GOODS", Name: "Return of goods"},
			{Code: "DOCUMENTS", Name: "Documents"},
			{Code: "MIXED_CONTENT", Name: "Mixed content"},
		},
		HSCodes: []HSCode{
			{Code: "6109100000", Description: "T-shirts, singlets, vests of cotton"},
			{Code: "6109909000", Description: "T-shirts of other textile materials"},
			{Code: "6110200000", Description: "Jerseys, pullovers, cardigans of cotton"},
			{Code: "6110309000", Description: "Jerseys, pullovers of man-made fibres"},
			{Code: "6203420000", Description: "Men's trousers of cotton"},
			{Code: "6204620000", Description: "Women's trousers of cotton"},
			{Code: "6402990000", Description: "Footwear with rubber/plastic soles"},
			{Code: "6403990000", Description: "Footwear with leather uppers"},
			{Code: "4202210000", Description: "Handbags with leather surface"},
			{Code: "4202220000", Description: "Handbags with plastic surface"},
			{Code: "4202320000", Description: "Wallets, purses of leather"},
			{Code: "7113110000", Description: "Jewelry of silver"},
			{Code: "7113190000", Description: "Jewelry of other precious metal"},
			{Code: "7117190000", Description: "Imitation jewelry"},
			{Code: "8517120000", Description: "Smartphones, mobile phones"},
			{Code: "8471300000", Description: "Laptops, portable computers"},
			{Code: "8443320000", Description: "Printers, copying machines"},
			{Code: "9102110000", Description: "Wrist-watches, electronic"},
			{Code: "9102190000", Description: "Other wrist-watches"},
			{Code: "9503009000", Description: "Toys, scale models, puzzles"},
			{Code: "9504500000", Description: "Video game consoles"},
			{Code: "4901990000", Description: "Printed books, brochures"},
			{Code: "4911100000", Description: "Advertising materials, catalogues"},
			{Code: "3304990000", Description: "Cosmetics, beauty preparations"},
			{Code: "3305100000", Description: "Shampoos"},
			{Code: "3401110000", Description: "Toilet soap"},
			{Code: "6302210000", Description: "Bed linen of cotton, printed"},
			{Code: "6302310000", Description: "Bed linen of cotton, other"},
			{Code: "8523510000", Description: "USB flash drives, memory cards"},
			{Code: "8544420000", Description: "Electric cables, conductors"},
			{Code: "6505009000", Description: "Hats, headgear knitted"},
			{Code: "6116930000", Description: "Gloves of synthetic fibres"},
			{Code: "6214200000", Description: "Shawls, scarves of wool"},
			{Code: "6217100000", Description: "Clothing accessories"},
			{Code: "4202110000", Description: "Trunks, suitcases leather"},
			{Code: "4202120000", Description: "Trunks, suitcases plastic"},
			{Code: "4202190000", Description: "Other bags, cases"},
			{Code: "9608100000", Description: "Ball point pens"},
			{Code: "9608200000", Description: "Felt pens, markers"},
			{Code: "3924900000", Description: "Household plastic articles"},
			{Code: "6912000000", Description: "Ceramic tableware"},
			{Code: "7010900000", Description: "Glass containers, jars"},
			{Code: "4823909000", Description: "Paper articles"},
			{Code: "6104430000", Description: "Women's dresses of synthetic"},
			{Code: "6106100000", Description: "Women's blouses of cotton"},
			{Code: "9006590000", Description: "Film cameras, other cameras"},
			{Code: "9006530000", Description: "Cameras for 35mm film"},
			{Code: "8525800000", Description: "Digital cameras, camcorders"},
			{Code: "9002110000", Description: "Camera lenses"},
		},
		Currencies: []string{"UAH", "USD", "EUR", "GBP"},
		Zone1: []string{
			"PL", "DE", "CZ", "SK", "HU", "RO", "BG", "AT", "CH", "BE", "NL",
			"FR", "IT", "ES", "PT", "GB", "IE", "DK", "SE", "NO", "FI", "GR", "TR",
		},
		Zone2: []string{
			"US", "CA", "MX", "BR", "AR", "JP", "CN", "KR", "AU", "NZ", "SG",
			"MY", "TH", "VN", "IN", "IL", "AE", "PH",
		},
		Prices: map[string]PriceRow{
			"SMALL_PACKAGE_PRIME": {Zone1: 280, Zone2: 380, Zone3: 420, PerExtra100g: 25},
			"SMALL_PACKAGE":       {Zone1: 220, Zone2: 320, Zone3: 360, PerExtra100g: 20},
			"PARCEL":              {Zone1: 450, Zone2: 650, Zone3: 750, PerExtra100g: 35},
			"EMS":                 {Zone1: 850, Zone2: 1200, Zone3: 1400, PerExtra100g: 55},
			"LETTER":              {Zone1: 85, Zone2: 120, Zone3: 140, PerExtra100g: 10},
			"BANDEROLE":           {Zone1: 150, Zone2: 220, Zone3: 260, PerExtra100g: 15},
		},
		Rates: map[string]int64{"UAH": 1, "USD": 41, "EUR": 44, "GBP": 51},
	}
}
