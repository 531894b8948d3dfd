package httpsec

import (
	"crypto/subtle"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/domain"
)

// VerifyToken は Slack から送られた共有トークンを設定値と比較します
// 比較は完全一致で、一致しない場合は domain.ErrUnauthorized を返します
func VerifyToken(expected, actual string) error {
	if expected == "" {
		return goerr.Wrap(domain.ErrUnauthorized, "検証トークンが未設定です")
	}

	// 定時間比較（タイミング攻撃対策）
	if subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) != 1 {
		return goerr.Wrap(domain.ErrUnauthorized, "token mismatch")
	}

	return nil
}
