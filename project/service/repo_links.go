package service

import (
	"fmt"
	"strings"
)

const (
	openSourceGuideURL = "https://softwareengineeringdaily.github.io"

	// goodFirstIssueQuery は "is:issue is:open label:"good first issue"" をエンコードした検索クエリ
	goodFirstIssueQuery = "is%3Aissue+is%3Aopen+label%3A%22good+first+issue%22"
)

// FormatRepoLinks はアプリ開発チャンネルへの案内と、リポジトリごとの good first issue 検索リンクを
// Slack 形式のテキストに整形します。リポジトリの並びは入力順のままです
func FormatRepoLinks(org, appChannelID string, repos []Repository) string {
	var sb strings.Builder

	fmt.Fprintf(&sb,
		"Thanks for joining <#%s|sed_app_development>. Check out the <%s|SEDaily Open Source Guide>. Also see the list of \"good first issues\" for each project:\n",
		appChannelID, openSourceGuideURL,
	)

	for _, repo := range repos {
		fmt.Fprintf(&sb, "- <https://github.com/%s/%s/issues?q=%s|%s>\n", org, repo.Name, goodFirstIssueQuery, repo.Name)
	}

	return sb.String()
}

// FormatGeneralWelcome はワークスペース参加者向けに各プラットフォームのチャンネルを案内するテキストを整形します
func FormatGeneralWelcome(appChannelID, iosChannelID, androidChannelID, webChannelID string) string {
	var sb strings.Builder

	sb.WriteString("Welcome to the Software Engineering Daily Slack! :wave:\n")
	fmt.Fprintf(&sb,
		"If you want to help build the SEDaily apps, say hi in <#%s|sed_app_development> and read the <%s|SEDaily Open Source Guide>.\n",
		appChannelID, openSourceGuideURL,
	)
	sb.WriteString("Each platform also has its own channel:\n")
	fmt.Fprintf(&sb, "- iOS: <#%s>\n", iosChannelID)
	fmt.Fprintf(&sb, "- Android: <#%s>\n", androidChannelID)
	fmt.Fprintf(&sb, "- Web frontend: <#%s>\n", webChannelID)

	return sb.String()
}
