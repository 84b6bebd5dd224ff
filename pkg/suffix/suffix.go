package suffix

import (
	"regexp"
	"strings"
)

// 历史上手工去重留下的文件名噪音尾缀，三种形式：
// 连字符+数字、下划线+数字、无分隔符的两位数字
var (
	hyphenDigits     = regexp.MustCompile(`-\d+$`)
	underscoreDigits = regexp.MustCompile(`_\d+$`)
	bareTwoDigits    = regexp.MustCompile(`\d{2}$`)
)

func splitExt(name string) (string, string) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name, ""
	}
	return name[:dot], name[dot:]
}

// HasNoiseSuffix 判断文件名（含扩展名）的主干是否以噪音尾缀结尾
func HasNoiseSuffix(name string) bool {
	base, _ := splitExt(name)
	return hyphenDigits.MatchString(base) ||
		underscoreDigits.MatchString(base) ||
		bareTwoDigits.MatchString(base)
}

// StripNoiseSuffix 按固定顺序剥离噪音尾缀并还原扩展名
// 每条规则只匹配前一条规则处理后的剩余部分，因此一次调用
// 可以剥掉多层叠加的尾缀，但仅限这一种规则顺序
func StripNoiseSuffix(name string) string {
	base, ext := splitExt(name)

	base = hyphenDigits.ReplaceAllString(base, "")
	base = underscoreDigits.ReplaceAllString(base, "")
	base = bareTwoDigits.ReplaceAllString(base, "")

	return base + ext
}
