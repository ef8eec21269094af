package textproc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// digit values for the enumeration reading (一二三 → 123).
var cnDigits = map[rune]int64{
	'零': 0, '〇': 0, '幺': 1, '一': 1, '二': 2, '两': 2, '三': 3,
	'四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// multipliers for the positional reading (一百二十三 → 123).
var cnUnits = map[rune]int64{
	'十': 10, '百': 100, '千': 1000, '万': 10000, '亿': 100000000,
}

// Idioms that happen to be made of numeral characters stay untouched
// wherever they occur in the text.
var numeralIdioms = []string{
	"乱七八糟", "五零四散", "五十步笑百步", "一五一十", "三三两两",
	"七上八下", "九九归一", "独一无二", "数一数二", "不管三七二十一",
}

const baseNumerals = "零〇幺一二两三四五六七八九十百千万亿"

func isBase(r rune) bool { return strings.ContainsRune(baseNumerals, r) }

// ChineseToNum rewrites spoken Chinese numbers as Arabic figures:
// enumerated digits (幺二三 → 123), positional values (一百零五 → 105),
// decimals (三点五 → 3.5), percentages (百分之五十 → 50%), fractions
// (三分之二 → 2/3), ratios (一比二 → 1:2), clock times (十二点三十四分
// → 12:34) and dates (二零二五年十月五日 → 2025年10月5日). Single
// numerals, idiom occurrences and runs that fail to parse are left as
// they are.
func ChineseToNum(text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)
	masked := idiomMask(runes)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); {
		if masked[i] || !isBase(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		out, next := convertAt(runes, masked, i)
		b.WriteString(out)
		i = next
	}
	return b.String()
}

// idiomMask marks every rune covered by an idiom occurrence so the
// converter skips those positions.
func idiomMask(runes []rune) []bool {
	mask := make([]bool, len(runes))
	for _, idiom := range numeralIdioms {
		iRunes := []rune(idiom)
		for i := 0; i+len(iRunes) <= len(runes); i++ {
			match := true
			for k, r := range iRunes {
				if runes[i+k] != r {
					match = false
					break
				}
			}
			if match {
				for k := range iRunes {
					mask[i+k] = true
				}
			}
		}
	}
	return mask
}

// scanRun returns the end of the maximal numeral run starting at i.
func scanRun(runes []rune, masked []bool, i int) int {
	for i < len(runes) && isBase(runes[i]) && !masked[i] {
		i++
	}
	return i
}

// convertAt converts the structured form starting at i and returns the
// emitted text plus the resume position. The rune after the leading
// numeral run decides the form: 年 starts a date, 点 a decimal or clock
// time, 分之 a fraction, 分 a minute:second time, 比 a ratio; anything
// else falls back to a plain integer run.
func convertAt(runes []rune, masked []bool, i int) (string, int) {
	j := scanRun(runes, masked, i)
	run := string(runes[i:j])

	next := func(k int) rune {
		if k < len(runes) && !masked[k] {
			return runes[k]
		}
		return 0
	}

	switch next(j) {
	case '年':
		return convertDate(runes, masked, i, j)
	case '点':
		return convertAfterDot(runes, masked, i, j)
	case '分':
		if next(j+1) == '之' {
			return convertFraction(runes, masked, i, j)
		}
		return convertMinSec(runes, masked, i, j)
	case '比':
		return convertRatio(runes, masked, i, j)
	}

	if v, ok := convertPlain(run); ok {
		return v, j
	}
	return run, j
}

// convertPlain converts a bare integer run of at least two numerals.
func convertPlain(run string) (string, bool) {
	if utf8.RuneCountInString(run) < 2 {
		return "", false
	}
	return parseInt(run)
}

// convertDate handles Y年M月D日 and Y年M月D号. The year is read digit by
// digit; an enumerated year mention without a full month+day stays
// verbatim (二零二五年十月 is not a date yet).
func convertDate(runes []rune, masked []bool, i, j int) (string, int) {
	fail := func() (string, int) {
		return string(runes[i : j+1]), j + 1
	}

	year, ok := parseDigits(string(runes[i:j]))
	if !ok || j-i < 2 {
		// 三十年 reads as a duration; the plain rule may still convert
		// the run, with 年 passed through.
		if v, ok := convertPlain(string(runes[i:j])); ok {
			return v, j
		}
		return fail()
	}

	m1 := j + 1
	m2 := scanRun(runes, masked, m1)
	if m2 == m1 || m2 >= len(runes) || masked[m2] || runes[m2] != '月' {
		return fail()
	}
	d1 := m2 + 1
	d2 := scanRun(runes, masked, d1)
	if d2 == d1 || d2 >= len(runes) || masked[d2] || (runes[d2] != '日' && runes[d2] != '号') {
		return fail()
	}

	month, ok := parseInt(string(runes[m1:m2]))
	if !ok {
		return fail()
	}
	day, ok := parseInt(string(runes[d1:d2]))
	if !ok {
		return fail()
	}
	return year + "年" + month + "月" + day + string(runes[d2]), d2 + 1
}

// convertAfterDot handles H点M分[S秒] clock times and decimals. A
// dangling 点 is speech, not a number.
func convertAfterDot(runes []rune, masked []bool, i, j int) (string, int) {
	f1 := j + 1
	f2 := scanRun(runes, masked, f1)
	if f2 == f1 {
		return string(runes[i : j+1]), j + 1
	}

	isTime := f2 < len(runes) && !masked[f2] && runes[f2] == '分' &&
		!(f2+1 < len(runes) && runes[f2+1] == '之')
	if isTime {
		hour, hok := parseInt(string(runes[i:j]))
		minute, mok := parseInt(string(runes[f1:f2]))
		if hok && mok {
			s1 := f2 + 1
			s2 := scanRun(runes, masked, s1)
			if s2 > s1 && s2 < len(runes) && !masked[s2] && runes[s2] == '秒' {
				if second, ok := parseInt(string(runes[s1:s2])); ok {
					return hour + ":" + pad2(minute) + ":" + pad2(second), s2 + 1
				}
			}
			return hour + ":" + pad2(minute), f2 + 1
		}
	}

	intVal, iok := parseInt(string(runes[i:j]))
	frac, fok := parseDigits(string(runes[f1:f2]))
	if iok && fok {
		return intVal + "." + frac, f2
	}
	return string(runes[i:f2]), f2
}

// convertFraction handles X分之Y, with 百分之 rendered as a percentage.
func convertFraction(runes []rune, masked []bool, i, j int) (string, int) {
	denom := string(runes[i:j])
	n1 := j + 2
	num, n2, ok := parseNumberAt(runes, masked, n1)
	if !ok {
		return string(runes[i:n1]), n1
	}
	if denom == "百" {
		return num + "%", n2
	}
	dv, ok := parseInt(denom)
	if !ok {
		return string(runes[i:n2]), n2
	}
	return num + "/" + dv, n2
}

// convertMinSec handles M分S秒.
func convertMinSec(runes []rune, masked []bool, i, j int) (string, int) {
	s1 := j + 1
	s2 := scanRun(runes, masked, s1)
	if s2 > s1 && s2 < len(runes) && !masked[s2] && runes[s2] == '秒' {
		minute, mok := parseInt(string(runes[i:j]))
		second, sok := parseInt(string(runes[s1:s2]))
		if mok && sok {
			return minute + ":" + pad2(second), s2 + 1
		}
	}
	if v, ok := convertPlain(string(runes[i:j])); ok {
		return v, j
	}
	return string(runes[i:j]), j
}

// convertRatio handles X比Y, where Y may carry a decimal part.
func convertRatio(runes []rune, masked []bool, i, j int) (string, int) {
	left, lok := parseInt(string(runes[i:j]))
	right, r2, rok := parseNumberAt(runes, masked, j+1)
	if lok && rok {
		return left + ":" + right, r2
	}
	if v, ok := convertPlain(string(runes[i:j])); ok {
		return v, j
	}
	return string(runes[i:j]), j
}

// parseNumberAt reads an integer with an optional decimal part starting
// at i, returning the rendered value and the end position.
func parseNumberAt(runes []rune, masked []bool, i int) (string, int, bool) {
	j := scanRun(runes, masked, i)
	if j == i {
		return "", i, false
	}
	intVal, ok := parseInt(string(runes[i:j]))
	if !ok {
		return "", i, false
	}
	if j < len(runes) && !masked[j] && runes[j] == '点' {
		f2 := scanRun(runes, masked, j+1)
		if f2 > j+1 {
			if frac, ok := parseDigits(string(runes[j+1 : f2])); ok {
				return intVal + "." + frac, f2, true
			}
		}
	}
	return intVal, j, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// parseInt parses either reading of an integer numeral run.
func parseInt(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return "", false
	}
	positional := false
	for _, r := range runes {
		if _, ok := cnUnits[r]; ok {
			positional = true
			continue
		}
		if _, ok := cnDigits[r]; !ok {
			return "", false
		}
	}
	if !positional {
		return parseDigits(s)
	}
	v, ok := parseValue(runes)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%d", v), true
}

// parseDigits reads digit-by-digit: 幺二三 → "123".
func parseDigits(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range s {
		d, ok := cnDigits[r]
		if !ok {
			return "", false
		}
		fmt.Fprintf(&b, "%d", d)
	}
	return b.String(), true
}

// parseValue reads the positional form: 十二万三千四百五十六 → 123456.
func parseValue(runes []rune) (int64, bool) {
	var total, section, digit int64
	for _, r := range runes {
		if d, ok := cnDigits[r]; ok {
			if d == 0 {
				continue
			}
			digit = d
			continue
		}
		unit := cnUnits[r]
		switch r {
		case '万', '亿':
			section += digit
			if section == 0 {
				return 0, false
			}
			total = (total + section) * unit
			section, digit = 0, 0
		default: // 十 百 千
			if digit == 0 {
				if r != '十' {
					return 0, false
				}
				digit = 1 // bare 十 reads as ten
			}
			section += digit * unit
			digit = 0
		}
	}
	return total + section + digit, true
}
