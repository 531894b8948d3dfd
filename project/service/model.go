package service

// JoinEvent はチャンネル参加イベントを表します
type JoinEvent struct {
	// ChannelID は参加したチャンネルのID
	ChannelID string

	// UserID は参加したユーザーのID
	UserID string
}

// SlashCommand はスラッシュコマンドの呼び出しを表します
type SlashCommand struct {
	// Text はコマンド引数（"stats snapshot" など）
	Text string

	// UserID はコマンドを実行したユーザーのID
	UserID string

	// ChannelID はコマンドが実行されたチャンネルのID
	ChannelID string

	// ResponseURL はエフェメラル応答の送信先
	ResponseURL string
}

// Repository はGitHub組織のリポジトリを表します
type Repository struct {
	Name string `json:"name"`
}

// Snapshot はダッシュボードAPIで生成されたスナップショットです
type Snapshot struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
