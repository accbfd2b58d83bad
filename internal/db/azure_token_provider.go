package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// azureCredentialProvider turns an azcore.TokenCredential into a TokenProvider
// for one OAuth scope.
type azureCredentialProvider struct {
	credential azcore.TokenCredential
	scope      string
	name       string
}

func (p *azureCredentialProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{p.scope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *azureCredentialProvider) String() string {
	return p.name
}

// NewAzureServicePrincipalProvider creates a token provider for Service
// Principal auth, the usual choice for CI pipelines. All three credentials
// are required.
func NewAzureServicePrincipalProvider(tenantID, clientID, clientSecret, scope string) (TokenProvider, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("azure service principal requires tenantID, clientID, and clientSecret")
	}

	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return &azureCredentialProvider{
		credential: cred,
		scope:      scope,
		name:       fmt.Sprintf("AzureServicePrincipal(tenant=%s, client=%s)", tenantID, clientID),
	}, nil
}

// NewAzureDefaultCredentialProvider creates a provider using the
// DefaultAzureCredential chain: environment, workload identity, managed
// identity, then developer CLIs.
func NewAzureDefaultCredentialProvider(scope string) (TokenProvider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}

	return &azureCredentialProvider{
		credential: cred,
		scope:      scope,
		name:       "AzureDefaultCredential",
	}, nil
}
