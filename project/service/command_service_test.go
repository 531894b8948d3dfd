package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/service"
)

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		text string
		verb service.Verb
		args []string
	}{
		{"help", service.VerbHelp, []string{}},
		{"help extra", service.VerbHelp, []string{"extra"}},
		{"welcome", service.VerbWelcome, []string{}},
		{"stats", service.VerbStats, []string{}},
		{"stats snapshot", service.VerbStats, []string{"snapshot"}},
		{"stats ", service.VerbStats, []string{}},
		{"stats snapshot  ", service.VerbStats, []string{"snapshot"}},
		{"stats  snapshot", service.VerbStats, []string{"", "snapshot"}},
		{"Stats", service.VerbUnknown, []string{}},
		{"", service.VerbUnknown, []string{}},
		{" help", service.VerbUnknown, []string{"help"}},
		{"bogus", service.VerbUnknown, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			parsed := service.ParseCommand(tc.text)
			gt.Value(t, parsed.Verb).Equal(tc.verb)
			gt.Array(t, parsed.Args).Length(len(tc.args))
			for i, a := range tc.args {
				gt.Value(t, parsed.Args[i]).Equal(a)
			}
		})
	}
}

func TestVerb_String(t *testing.T) {
	gt.Value(t, service.VerbWelcome.String()).Equal("welcome")
	gt.Value(t, service.VerbStats.String()).Equal("stats")
	gt.Value(t, service.VerbHelp.String()).Equal("help")
	gt.Value(t, service.VerbUnknown.String()).Equal("unknown")
	gt.Value(t, service.Verb(99).String()).Equal("unknown")
}

type fakeSnapshotService struct {
	text  string
	err   error
	calls int
}

func (f *fakeSnapshotService) Latest(ctx context.Context) (string, error) {
	f.calls++
	return f.text, f.err
}

func newCommandService(sp *fakeSlack, rp *fakeRepos, ss *fakeSnapshotService) service.CommandService {
	cfg := &config.Config{
		AppDevChannel:  "CAPP",
		GitHubOrg:      "SoftwareEngineeringDaily",
		WelcomeVariant: config.WelcomeContributor,
	}
	welcome := service.NewWelcomeService(cfg, sp, rp)
	return service.NewCommandService(sp, welcome, ss)
}

func TestCommandService_Replies(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{"help", "help", service.HelpText},
		{"help ignores arguments", "help extra", service.HelpText},
		{"stats without argument", "stats", service.StatsPendingText},
		{"stats with trailing space", "stats ", service.StatsPendingText},
		{"stats with unknown argument", "stats foo", service.UnrecognizedText},
		{"stats with extra argument", "stats snapshot now", service.UnrecognizedText},
		{"unknown verb", "bogus", service.UnrecognizedText},
		{"empty text", "", service.UnrecognizedText},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sp := &fakeSlack{}
			ss := &fakeSnapshotService{}
			cs := newCommandService(sp, &fakeRepos{}, ss)

			err := cs.Handle(context.Background(), &service.SlashCommand{Text: tc.text, UserID: "U1", ResponseURL: "https://hooks.example/r"})
			gt.NoError(t, err).Required()
			gt.Array(t, sp.responses).Length(1)
			gt.Value(t, sp.responses[0]).Equal(tc.want)
			gt.Value(t, ss.calls).Equal(0)
		})
	}
}

func TestCommandService_StatsSnapshot(t *testing.T) {
	t.Run("replies with snapshot text", func(t *testing.T) {
		sp := &fakeSlack{}
		ss := &fakeSnapshotService{text: "Here is the latest Events API snapshot: https://grafana.example/s/1"}
		cs := newCommandService(sp, &fakeRepos{}, ss)

		gt.NoError(t, cs.Handle(context.Background(), &service.SlashCommand{Text: "stats snapshot", ResponseURL: "https://hooks.example/r"})).Required()
		gt.Value(t, ss.calls).Equal(1)
		gt.Array(t, sp.responses).Length(1)
		gt.Value(t, sp.responses[0]).Equal(ss.text)
	})

	t.Run("replies with error text", func(t *testing.T) {
		sp := &fakeSlack{}
		ss := &fakeSnapshotService{err: errors.New("dashboard unavailable")}
		cs := newCommandService(sp, &fakeRepos{}, ss)

		gt.NoError(t, cs.Handle(context.Background(), &service.SlashCommand{Text: "stats snapshot", ResponseURL: "https://hooks.example/r"})).Required()
		gt.Array(t, sp.responses).Length(1)
		gt.Value(t, sp.responses[0]).Equal("An error occurred: dashboard unavailable")
	})

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			"wrapped cause",
			goerr.Wrap(errors.New("snapshot 403"), "スナップショット生成失敗"),
			"An error occurred: snapshot 403",
		},
		{
			"upstream failure",
			goerr.Wrap(goerr.New("grafana: API エラー", goerr.T(domain.TagUpstream)), "スナップショット生成失敗"),
			"An error occurred: an upstream service request failed",
		},
		{
			"unexpected response",
			goerr.New("grafana: スナップショットURLが空です", goerr.T(domain.TagParse)),
			"An error occurred: an upstream service returned an unexpected response",
		},
		{
			"cache write failure",
			goerr.Wrap(goerr.New("store: 保存失敗", goerr.T(domain.TagPersistence)), "スナップショット保存失敗"),
			"An error occurred: the snapshot cache is unavailable",
		},
		{
			"untagged internal error",
			goerr.New("ドメイン: 不正な値です"),
			"An error occurred: internal error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sp := &fakeSlack{}
			cs := newCommandService(sp, &fakeRepos{}, &fakeSnapshotService{err: tc.err})

			gt.NoError(t, cs.Handle(context.Background(), &service.SlashCommand{Text: "stats snapshot", ResponseURL: "https://hooks.example/r"})).Required()
			gt.Array(t, sp.responses).Length(1)
			gt.Value(t, sp.responses[0]).Equal(tc.want)
			gt.String(t, sp.responses[0]).NotContains("失敗")
		})
	}
}

func TestCommandService_Welcome(t *testing.T) {
	t.Run("sends DM without ephemeral reply", func(t *testing.T) {
		sp := &fakeSlack{}
		rp := &fakeRepos{repos: []service.Repository{{Name: "sedaily-front-end"}}}
		cs := newCommandService(sp, rp, &fakeSnapshotService{})

		gt.NoError(t, cs.Handle(context.Background(), &service.SlashCommand{Text: "welcome", UserID: "U42", ResponseURL: "https://hooks.example/r"})).Required()
		gt.Array(t, sp.dms).Length(1)
		gt.Value(t, sp.dms[0].UserID).Equal("U42")
		gt.String(t, sp.dms[0].Text).Contains("sedaily-front-end")
		gt.Array(t, sp.responses).Length(0)
	})

	t.Run("replies with error text when DM fails", func(t *testing.T) {
		sp := &fakeSlack{}
		rp := &fakeRepos{err: errors.New("github 502")}
		cs := newCommandService(sp, rp, &fakeSnapshotService{})

		gt.NoError(t, cs.Handle(context.Background(), &service.SlashCommand{Text: "welcome", UserID: "U42", ResponseURL: "https://hooks.example/r"})).Required()
		gt.Array(t, sp.dms).Length(0)
		gt.Array(t, sp.responses).Length(1)
		gt.Value(t, sp.responses[0]).Equal("An error occurred: github 502")
	})
}
