// Seed data for the production tank.
//
// The matrix below is the vendor dipstick chart for the 30 m³ horizontal
// cylinder, transcribed row by row: each row covers ten centimetres (row 0 =
// 0–9 cm, row 1 = 10–19 cm, ...) and each cell is the cumulative litres at
// that height. The final row carries the "full" sentinel at 300 cm, which
// decodes to the configured tank capacity.
package calibration

// DefaultMatrix is the seeded dipstick chart covering 0–300 cm.
var DefaultMatrix = Matrix{
	{"0", "10", "28", "51", "78", "109", "143", "180", "220", "262"},              // 0–9
	{"307", "354", "403", "453", "506", "561", "617", "675", "735", "796"},        // 10–19
	{"859", "923", "989", "1056", "1124", "1194", "1265", "1337", "1411", "1485"}, // 20–29
	{"1561", "1638", "1716", "1795", "1876", "1957", "2039", "2122", "2207", "2292"},
	{"2378", "2465", "2553", "2642", "2731", "2822", "2913", "3005", "3098", "3192"},
	{"3287", "3382", "3478", "3575", "3672", "3770", "3869", "3969", "4069", "4170"},
	{"4271", "4374", "4476", "4580", "4684", "4788", "4894", "4999", "5106", "5213"},
	{"5320", "5428", "5536", "5645", "5755", "5865", "5976", "6087", "6198", "6310"},
	{"6422", "6535", "6648", "6762", "6876", "6991", "7106", "7221", "7337", "7453"},
	{"7569", "7686", "7804", "7921", "8039", "8157", "8276", "8395", "8514", "8634"},
	{"8754", "8874", "8994", "9115", "9236", "9358", "9479", "9601", "9723", "9845"},
	{"9968", "10091", "10214", "10337", "10461", "10584", "10708", "10832", "10957", "11081"},
	{"11206", "11331", "11456", "11581", "11706", "11832", "11957", "12083", "12209", "12335"},
	{"12461", "12587", "12714", "12840", "12967", "13093", "13220", "13347", "13474", "13601"},
	{"13728", "13855", "13982", "14109", "14236", "14363", "14491", "14618", "14745", "14873"},
	{"15000", "15127", "15255", "15382", "15509", "15637", "15764", "15891", "16018", "16145"},
	{"16272", "16399", "16526", "16653", "16780", "16907", "17033", "17160", "17286", "17413"},
	{"17539", "17665", "17791", "17917", "18043", "18168", "18294", "18419", "18544", "18669"},
	{"18794", "18919", "19043", "19168", "19292", "19416", "19539", "19663", "19786", "19909"},
	{"20032", "20155", "20277", "20399", "20521", "20642", "20764", "20885", "21006", "21126"},
	{"21246", "21366", "21486", "21605", "21724", "21843", "21961", "22079", "22196", "22314"},
	{"22431", "22547", "22663", "22779", "22894", "23009", "23124", "23238", "23352", "23465"},
	{"23578", "23690", "23802", "23913", "24024", "24135", "24245", "24355", "24464", "24572"},
	{"24680", "24787", "24894", "25001", "25106", "25212", "25316", "25420", "25524", "25626"},
	{"25729", "25830", "25931", "26031", "26131", "26230", "26328", "26425", "26522", "26618"},
	{"26713", "26808", "26902", "26995", "27087", "27178", "27269", "27358", "27447", "27535"},
	{"27622", "27708", "27793", "27878", "27961", "28043", "28124", "28205", "28284", "28362"},
	{"28439", "28515", "28589", "28663", "28735", "28806", "28876", "28944", "29011", "29077"},
	{"29141", "29204", "29265", "29325", "29383", "29439", "29494", "29547", "29597", "29646"},
	{"29693", "29738", "29780", "29820", "29857", "29891", "29922", "29949", "29972", "29990"},
	{FullSentinel}, // 300
}

// Default builds the production table from DefaultMatrix.
func Default(maxCm int, capacityL float64) (*Table, BuildReport, error) {
	return Build(DefaultMatrix, maxCm, capacityL)
}
