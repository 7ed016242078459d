package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// VaultClient wraps the Azure Key Vault client for secret retrieval
type VaultClient struct {
	client       *azsecrets.Client
	vaultName    string
	logger       *zap.Logger
	mu           sync.Mutex
	cache        map[string]cachedSecret
	cacheTTL     time.Duration
	cacheEnabled bool
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVaultClient creates a new Azure Key Vault client.
// DefaultAzureCredential covers environment variables, managed identity
// when running in Azure, and Azure CLI credentials for local development.
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	logger.Info("Azure Key Vault client initialized",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
	)

	return &VaultClient{
		client:       client,
		vaultName:    cfg.VaultName,
		logger:       logger,
		cache:        make(map[string]cachedSecret),
		cacheTTL:     cacheTTL,
		cacheEnabled: cfg.CacheEnabled,
	}, nil
}

// GetSecret retrieves a secret from Azure Key Vault
func (v *VaultClient) GetSecret(ctx context.Context, secretName string) (string, error) {
	if v.cacheEnabled {
		v.mu.Lock()
		if cached, ok := v.cache[secretName]; ok {
			if time.Now().Before(cached.expiresAt) {
				v.mu.Unlock()
				return cached.value, nil
			}
			delete(v.cache, secretName)
		}
		v.mu.Unlock()
	}

	resp, err := v.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		v.logger.Error("failed to get secret from Key Vault",
			zap.String("secret_name", secretName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get secret '%s': %w", secretName, err)
	}

	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", secretName)
	}

	value := *resp.Value

	if v.cacheEnabled {
		v.mu.Lock()
		v.cache[secretName] = cachedSecret{
			value:     value,
			expiresAt: time.Now().Add(v.cacheTTL),
		}
		v.mu.Unlock()
	}

	return value, nil
}

// ClearCache clears all cached secrets
func (v *VaultClient) ClearCache() {
	v.mu.Lock()
	v.cache = make(map[string]cachedSecret)
	v.mu.Unlock()
}
