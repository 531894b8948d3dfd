package service

import "strings"

// Verb はスラッシュコマンドの動詞です
type Verb int

const (
	// VerbUnknown は認識できない動詞（フォールバック）
	VerbUnknown Verb = iota
	VerbWelcome
	VerbStats
	VerbHelp
)

var verbNames = map[string]Verb{
	"welcome": VerbWelcome,
	"stats":   VerbStats,
	"help":    VerbHelp,
}

func (v Verb) String() string {
	switch v {
	case VerbWelcome:
		return "welcome"
	case VerbStats:
		return "stats"
	case VerbHelp:
		return "help"
	}
	return "unknown"
}

// ParsedCommand はコマンドテキストを動詞と引数に分解した結果です
type ParsedCommand struct {
	Verb Verb
	Args []string
}

// ParseCommand はコマンドテキストを半角スペース1文字で分割し、先頭トークンを動詞として解釈します
// 動詞の比較は大文字小文字を区別する完全一致です
// 末尾の空トークン（"stats " など）は引数に含めません
func ParseCommand(text string) ParsedCommand {
	tokens := strings.Split(text, " ")
	for len(tokens) > 1 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}

	verb, ok := verbNames[tokens[0]]
	if !ok {
		verb = VerbUnknown
	}

	return ParsedCommand{
		Verb: verb,
		Args: tokens[1:],
	}
}
