package password

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength 密码最小长度
const MinLength = 8

// 相似度阈值，超过即认为密码与用户属性过于接近
const maxSimilarity = 0.7

// 常见弱密码（小写比较）
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "passw0rd": {},
	"12345678": {}, "123456789": {}, "1234567890": {}, "87654321": {},
	"qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {},
	"abc12345": {}, "11111111": {}, "00000000": {}, "letmein1": {},
	"trustno1": {}, "superman": {}, "starwars": {}, "dragon12": {},
	"monkey12": {}, "master12": {}, "whatever": {}, "asdfghjkl": {},
	"zaq12wsx": {}, "1q2w3e4r": {}, "qazwsxedc": {}, "administrator": {},
}

// Validate 检查注册密码强度，返回所有不满足的规则描述
// attrs 为用户名、邮箱等用户属性，用于相似度检查
func Validate(plain string, attrs ...string) []string {
	var problems []string

	if utf8.RuneCountInString(plain) < MinLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", MinLength))
	}
	if isNumeric(plain) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(plain)]; ok {
		problems = append(problems, "This password is too common.")
	}
	for _, attr := range attrs {
		if tooSimilar(plain, attr) {
			problems = append(problems, "The password is too similar to the username.")
			break
		}
	}
	return problems
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilar 属性整体或按分隔符拆出的片段与密码相似度过高
func tooSimilar(plain, attr string) bool {
	plain = strings.ToLower(plain)
	attr = strings.ToLower(strings.TrimSpace(attr))
	if plain == "" || attr == "" {
		return false
	}
	parts := append([]string{attr}, strings.FieldsFunc(attr, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})...)
	for _, part := range parts {
		if len(part) < 3 {
			continue
		}
		if similarity(plain, part) >= maxSimilarity {
			return true
		}
	}
	return false
}

// similarity 基于最长公共子序列的相似度 2*M/(len(a)+len(b))
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}
