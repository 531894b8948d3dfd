package secret

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/infrastructure/config"
)

// accessFunc はリソース名を受け取りシークレットのペイロードを返します
type accessFunc func(ctx context.Context, name string) ([]byte, error)

// Manager は起動時に Secret Manager から Bot の認証情報を読み出します
type Manager struct {
	projectID string
	access    accessFunc
	close     func() error
}

var _ config.SecretGetter = (*Manager)(nil)

// NewManager は Secret Manager クライアントを生成します
func NewManager(ctx context.Context, projectID string) (*Manager, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "secret manager: クライアント初期化失敗", goerr.V("project", projectID))
	}

	access := func(ctx context.Context, name string) ([]byte, error) {
		result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return nil, err
		}
		return result.GetPayload().GetData(), nil
	}

	return &Manager{
		projectID: projectID,
		access:    access,
		close:     client.Close,
	}, nil
}

// GetSecret は secretName の最新バージョンを文字列で返します
// 値が空の場合もエラーとします
func (m *Manager) GetSecret(ctx context.Context, secretName string) (string, error) {
	name := versionName(m.projectID, secretName)

	data, err := m.access(ctx, name)
	if err != nil {
		return "", goerr.Wrap(err, "secret manager: シークレット取得失敗", goerr.V("name", secretName))
	}
	if len(data) == 0 {
		return "", goerr.New("secret manager: シークレット値が空です", goerr.V("name", secretName))
	}

	return string(data), nil
}

func (m *Manager) Close() error {
	if m.close != nil {
		return m.close()
	}
	return nil
}

// versionName は projects/{project}/secrets/{name}/versions/latest 形式のリソース名を返します
func versionName(projectID, secretName string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName)
}
