package password

import (
	"sns-system/config"

	"golang.org/x/crypto/bcrypt"
)

var cost = bcrypt.DefaultCost

// Configure 按配置设置 bcrypt 成本，超出范围时回退到默认值
func Configure(cfg config.PasswordConfig) {
	cost = normalizeCost(cfg.BcryptCost)
}

func normalizeCost(c int) int {
	if c < bcrypt.MinCost || c > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return c
}

// Hash 生成密码哈希
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify 校验密码，哈希中自带成本，与当前配置无关
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
