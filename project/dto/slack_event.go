package dto

// SlackEventRequest は Slack Events API のリクエスト全体を表します
// 旧来の検証トークン方式のため token フィールドを含みます
type SlackEventRequest struct {
	Token     string     `json:"token"`
	TeamID    string     `json:"team_id"`
	APIAppID  string     `json:"api_app_id"`
	Event     SlackEvent `json:"event"`
	Type      string     `json:"type"` // "event_callback", "url_verification"
	EventID   string     `json:"event_id"`
	EventTime int64      `json:"event_time"`
	Challenge string     `json:"challenge,omitempty"` // URL検証時のみ
}

// SlackEvent は内側のイベントのうち Bot が参照する項目だけを表します
// member_joined_channel 以外のイベントも同じ構造体で受けて type で振り分けます
type SlackEvent struct {
	Type        string `json:"type"`                   // "member_joined_channel" など
	User        string `json:"user"`                   // 参加したユーザー
	Channel     string `json:"channel"`                // 参加先チャンネルID
	ChannelType string `json:"channel_type,omitempty"` // "C": public, "G": private
	Team        string `json:"team,omitempty"`
	Inviter     string `json:"inviter,omitempty"`
}
