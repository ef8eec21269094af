package textproc

import "testing"

func TestChineseToNum(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"一二三", "123"},
		{"幺二三点四五六", "123.456"},
		{"一百二十三", "123"},
		{"十二万三千四百五十六", "123456"},
		{"一千二百三十四点五六", "1234.56"},
		{"一百零五", "105"},
		{"百分之五十", "50%"},
		{"百分之十二点五", "12.5%"},
		{"一百二十三只", "123只"},
		{"abc一二三", "abc123"},
		{"一二三abc", "123abc"},
		// Quantity phrases: a run that merely shares characters with an
		// idiom still converts.
		{"五十块", "50块"},
		{"十一个人", "11个人"},
		{"七八个", "78个"},
		// Fractions and ratios.
		{"三分之二", "2/3"},
		{"十分之三", "3/10"},
		{"一比二", "1:2"},
		{"三比四点五", "3:4.5"},
		// Clock times.
		{"十二点三十四分", "12:34"},
		{"十二点三十四分五十六秒", "12:34:56"},
		{"十二分三十四秒", "12:34"},
		{"会议定在十点零五分", "会议定在10:05"},
		// Dates need a full year-month-day; a bare year mention stays.
		{"二零二五年十月五日", "2025年10月5日"},
		{"二零二五年十月五号", "2025年10月5号"},
		{"二零二五年十月", "二零二五年十月"},
		// Not numbers: speech, idioms, single numerals.
		{"点一", "点一"},
		{"一二三点", "一二三点"},
		{"一", "一"},
		{"一个", "一个"},
		{"乱七八糟", "乱七八糟"},
		{"五零四散", "五零四散"},
		{"五十步笑百步", "五十步笑百步"},
		{"九九归一", "九九归一"},
		{"不管三七二十一", "不管三七二十一"},
	}
	for _, tt := range tests {
		if got := ChineseToNum(tt.in); got != tt.want {
			t.Errorf("ChineseToNum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChineseToNumIdempotent(t *testing.T) {
	inputs := []string{
		"一百二十三", "百分之五十", "总共三百二十五块",
		"十二点三十四分", "二零二五年十月五日", "三分之二",
	}
	for _, in := range inputs {
		once := ChineseToNum(in)
		if twice := ChineseToNum(once); twice != once {
			t.Errorf("not idempotent on %q: %q -> %q", in, once, twice)
		}
	}
}
