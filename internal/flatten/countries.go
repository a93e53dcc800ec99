package flatten

// CountryInfo is one row of the static country reference table, following
// the World Bank region and income-group classification.
type CountryInfo struct {
	Name        string
	Region      string
	IncomeGroup string
}

// World Bank region names.
const (
	regionEAP  = "East Asia & Pacific"
	regionECA  = "Europe & Central Asia"
	regionLAC  = "Latin America & Caribbean"
	regionMENA = "Middle East & North Africa"
	regionNA   = "North America"
	regionSA   = "South Asia"
	regionSSA  = "Sub-Saharan Africa"
)

// World Bank income tiers.
const (
	incomeHigh        = "High income"
	incomeUpperMiddle = "Upper middle income"
	incomeLowerMiddle = "Lower middle income"
	incomeLow         = "Low income"
)

// LookupCountry resolves an ISO alpha-2 country code. Unknown codes return
// the zero CountryInfo so every derived display field renders empty.
func LookupCountry(code string) CountryInfo {
	return countryTable[code]
}

// countryTable maps ISO alpha-2 codes to display metadata.
var countryTable = map[string]CountryInfo{
	"AE": {"United Arab Emirates", regionMENA, incomeHigh},
	"AF": {"Afghanistan", regionSA, incomeLow},
	"AL": {"Albania", regionECA, incomeUpperMiddle},
	"AM": {"Armenia", regionECA, incomeUpperMiddle},
	"AO": {"Angola", regionSSA, incomeLowerMiddle},
	"AR": {"Argentina", regionLAC, incomeUpperMiddle},
	"AT": {"Austria", regionECA, incomeHigh},
	"AU": {"Australia", regionEAP, incomeHigh},
	"AZ": {"Azerbaijan", regionECA, incomeUpperMiddle},
	"BA": {"Bosnia and Herzegovina", regionECA, incomeUpperMiddle},
	"BD": {"Bangladesh", regionSA, incomeLowerMiddle},
	"BE": {"Belgium", regionECA, incomeHigh},
	"BF": {"Burkina Faso", regionSSA, incomeLow},
	"BG": {"Bulgaria", regionECA, incomeHigh},
	"BH": {"Bahrain", regionMENA, incomeHigh},
	"BJ": {"Benin", regionSSA, incomeLowerMiddle},
	"BO": {"Bolivia", regionLAC, incomeLowerMiddle},
	"BR": {"Brazil", regionLAC, incomeUpperMiddle},
	"BW": {"Botswana", regionSSA, incomeUpperMiddle},
	"BY": {"Belarus", regionECA, incomeUpperMiddle},
	"CA": {"Canada", regionNA, incomeHigh},
	"CD": {"Democratic Republic of the Congo", regionSSA, incomeLow},
	"CH": {"Switzerland", regionECA, incomeHigh},
	"CI": {"Côte d'Ivoire", regionSSA, incomeLowerMiddle},
	"CL": {"Chile", regionLAC, incomeHigh},
	"CM": {"Cameroon", regionSSA, incomeLowerMiddle},
	"CN": {"China", regionEAP, incomeUpperMiddle},
	"CO": {"Colombia", regionLAC, incomeUpperMiddle},
	"CR": {"Costa Rica", regionLAC, incomeUpperMiddle},
	"CU": {"Cuba", regionLAC, incomeUpperMiddle},
	"CY": {"Cyprus", regionECA, incomeHigh},
	"CZ": {"Czechia", regionECA, incomeHigh},
	"DE": {"Germany", regionECA, incomeHigh},
	"DK": {"Denmark", regionECA, incomeHigh},
	"DZ": {"Algeria", regionMENA, incomeUpperMiddle},
	"EC": {"Ecuador", regionLAC, incomeUpperMiddle},
	"EE": {"Estonia", regionECA, incomeHigh},
	"EG": {"Egypt", regionMENA, incomeLowerMiddle},
	"ES": {"Spain", regionECA, incomeHigh},
	"ET": {"Ethiopia", regionSSA, incomeLow},
	"FI": {"Finland", regionECA, incomeHigh},
	"FR": {"France", regionECA, incomeHigh},
	"GB": {"United Kingdom", regionECA, incomeHigh},
	"GE": {"Georgia", regionECA, incomeUpperMiddle},
	"GH": {"Ghana", regionSSA, incomeLowerMiddle},
	"GR": {"Greece", regionECA, incomeHigh},
	"GT": {"Guatemala", regionLAC, incomeUpperMiddle},
	"HK": {"Hong Kong SAR, China", regionEAP, incomeHigh},
	"HN": {"Honduras", regionLAC, incomeLowerMiddle},
	"HR": {"Croatia", regionECA, incomeHigh},
	"HU": {"Hungary", regionECA, incomeHigh},
	"ID": {"Indonesia", regionEAP, incomeUpperMiddle},
	"IE": {"Ireland", regionECA, incomeHigh},
	"IL": {"Israel", regionMENA, incomeHigh},
	"IN": {"India", regionSA, incomeLowerMiddle},
	"IQ": {"Iraq", regionMENA, incomeUpperMiddle},
	"IR": {"Iran", regionMENA, incomeLowerMiddle},
	"IS": {"Iceland", regionECA, incomeHigh},
	"IT": {"Italy", regionECA, incomeHigh},
	"JM": {"Jamaica", regionLAC, incomeUpperMiddle},
	"JO": {"Jordan", regionMENA, incomeLowerMiddle},
	"JP": {"Japan", regionEAP, incomeHigh},
	"KE": {"Kenya", regionSSA, incomeLowerMiddle},
	"KG": {"Kyrgyz Republic", regionECA, incomeLowerMiddle},
	"KH": {"Cambodia", regionEAP, incomeLowerMiddle},
	"KR": {"Korea, Rep.", regionEAP, incomeHigh},
	"KW": {"Kuwait", regionMENA, incomeHigh},
	"KZ": {"Kazakhstan", regionECA, incomeUpperMiddle},
	"LB": {"Lebanon", regionMENA, incomeLowerMiddle},
	"LK": {"Sri Lanka", regionSA, incomeLowerMiddle},
	"LT": {"Lithuania", regionECA, incomeHigh},
	"LU": {"Luxembourg", regionECA, incomeHigh},
	"LV": {"Latvia", regionECA, incomeHigh},
	"LY": {"Libya", regionMENA, incomeUpperMiddle},
	"MA": {"Morocco", regionMENA, incomeLowerMiddle},
	"MD": {"Moldova", regionECA, incomeUpperMiddle},
	"MG": {"Madagascar", regionSSA, incomeLow},
	"MK": {"North Macedonia", regionECA, incomeUpperMiddle},
	"ML": {"Mali", regionSSA, incomeLow},
	"MM": {"Myanmar", regionEAP, incomeLowerMiddle},
	"MN": {"Mongolia", regionEAP, incomeUpperMiddle},
	"MT": {"Malta", regionECA, incomeHigh},
	"MW": {"Malawi", regionSSA, incomeLow},
	"MX": {"Mexico", regionLAC, incomeUpperMiddle},
	"MY": {"Malaysia", regionEAP, incomeUpperMiddle},
	"MZ": {"Mozambique", regionSSA, incomeLow},
	"NA": {"Namibia", regionSSA, incomeUpperMiddle},
	"NE": {"Niger", regionSSA, incomeLow},
	"NG": {"Nigeria", regionSSA, incomeLowerMiddle},
	"NL": {"Netherlands", regionECA, incomeHigh},
	"NO": {"Norway", regionECA, incomeHigh},
	"NP": {"Nepal", regionSA, incomeLowerMiddle},
	"NZ": {"New Zealand", regionEAP, incomeHigh},
	"OM": {"Oman", regionMENA, incomeHigh},
	"PA": {"Panama", regionLAC, incomeHigh},
	"PE": {"Peru", regionLAC, incomeUpperMiddle},
	"PH": {"Philippines", regionEAP, incomeLowerMiddle},
	"PK": {"Pakistan", regionSA, incomeLowerMiddle},
	"PL": {"Poland", regionECA, incomeHigh},
	"PT": {"Portugal", regionECA, incomeHigh},
	"PY": {"Paraguay", regionLAC, incomeUpperMiddle},
	"QA": {"Qatar", regionMENA, incomeHigh},
	"RO": {"Romania", regionECA, incomeHigh},
	"RS": {"Serbia", regionECA, incomeUpperMiddle},
	"RU": {"Russian Federation", regionECA, incomeUpperMiddle},
	"RW": {"Rwanda", regionSSA, incomeLow},
	"SA": {"Saudi Arabia", regionMENA, incomeHigh},
	"SD": {"Sudan", regionSSA, incomeLow},
	"SE": {"Sweden", regionECA, incomeHigh},
	"SG": {"Singapore", regionEAP, incomeHigh},
	"SI": {"Slovenia", regionECA, incomeHigh},
	"SK": {"Slovak Republic", regionECA, incomeHigh},
	"SN": {"Senegal", regionSSA, incomeLowerMiddle},
	"SO": {"Somalia", regionSSA, incomeLow},
	"SY": {"Syrian Arab Republic", regionMENA, incomeLow},
	"TH": {"Thailand", regionEAP, incomeUpperMiddle},
	"TJ": {"Tajikistan", regionECA, incomeLowerMiddle},
	"TN": {"Tunisia", regionMENA, incomeLowerMiddle},
	"TR": {"Türkiye", regionECA, incomeUpperMiddle},
	"TW": {"Taiwan, China", regionEAP, incomeHigh},
	"TZ": {"Tanzania", regionSSA, incomeLowerMiddle},
	"UA": {"Ukraine", regionECA, incomeUpperMiddle},
	"UG": {"Uganda", regionSSA, incomeLow},
	"US": {"United States", regionNA, incomeHigh},
	"UY": {"Uruguay", regionLAC, incomeHigh},
	"UZ": {"Uzbekistan", regionECA, incomeLowerMiddle},
	"VE": {"Venezuela, RB", regionLAC, incomeUpperMiddle},
	"VN": {"Viet Nam", regionEAP, incomeLowerMiddle},
	"YE": {"Yemen, Rep.", regionMENA, incomeLow},
	"ZA": {"South Africa", regionSSA, incomeUpperMiddle},
	"ZM": {"Zambia", regionSSA, incomeLowerMiddle},
	"ZW": {"Zimbabwe", regionSSA, incomeLowerMiddle},
}
