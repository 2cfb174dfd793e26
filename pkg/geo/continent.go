package geo

import "strings"

//UnknownContinent is returned for country codes without a continent
const UnknownContinent = "Unknown"

var continentMembers = map[string]string{
	"AF": "DZ AO BJ BW BF BI CM CV CF TD KM CG CD CI DJ EG GQ ER ET GA GM GH GN GW KE LS LR LY MG MW ML MR MU YT MA MZ NA NE NG RE RW SH ST SN SC SL SO ZA SS SD SZ TZ TG TN UG EH ZM ZW",
	"AN": "AQ BV GS HM TF",
	"AS": "AF AM AZ BH BD BT IO BN KH CN CX CC CY GE HK IN ID IR IQ IL JP JO KZ KP KR KW KG LA LB MO MY MV MN MM NP OM PK PS PH QA SA SG LK SY TW TJ TH TL TR TM AE UZ VN YE",
	"EU": "AX AL AD AT BY BE BA BG HR CZ DK EE FO FI FR DE GI GR GG HU IS IE IM IT JE XK LV LI LT LU MK MT MD MC ME NL NO PL PT RO RU SM RS SK SI ES SJ SE CH UA GB VA",
	"NA": "AI AG AW BS BB BZ BM BQ VG CA KY CR CU CW DM DO SV GL GD GP GT HT HN JM MQ MX MS NI PA PR BL KN LC MF PM VC SX TT TC US VI UM",
	"OC": "AS AU CK FJ PF GU KI MH FM NR NC NZ NU NF MP PW PG PN WS SB TK TO TV VU WF",
	"SA": "AR BO BR CL CO EC FK GF GY PY PE SR UY VE",
}

var continentByCountry = func() map[string]string {
	out := make(map[string]string)
	for continent, members := range continentMembers {
		for _, cc := range strings.Fields(members) {
			out[cc] = continent
		}
	}
	return out
}()

//Continent maps an ISO 3166 alpha-2 country code to its continent code
func Continent(countryCode string) string {
	if continent, ok := continentByCountry[strings.ToUpper(countryCode)]; ok {
		return continent
	}
	return UnknownContinent
}
