// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const secretIDPrefix = "mintmaster-"

// sessionSecret is the one secret holding every session key.
const sessionSecret = "session"

// secretClient is the part of the Secret Manager client the store uses.
type secretClient interface {
	AccessSecretVersion(ctx context.Context, req *secretspb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretspb.AccessSecretVersionResponse, error)
	AddSecretVersion(ctx context.Context, req *secretspb.AddSecretVersionRequest, opts ...gax.CallOption) (*secretspb.SecretVersion, error)
	GetSecret(ctx context.Context, req *secretspb.GetSecretRequest, opts ...gax.CallOption) (*secretspb.Secret, error)
	CreateSecret(ctx context.Context, req *secretspb.CreateSecretRequest, opts ...gax.CallOption) (*secretspb.Secret, error)
	DeleteSecret(ctx context.Context, req *secretspb.DeleteSecretRequest, opts ...gax.CallOption) error
	Close() error
}

// SecretManager keeps the whole session as a JSON object in the GCP secret
// "mintmaster-session". Every write adds one version, so a batch lands
// completely or not at all. The service encrypts at rest, so this backend
// is not sealed.
type SecretManager struct {
	client    secretClient
	projectID string
	mu        sync.Mutex
}

// OpenSecretManager connects to Secret Manager for projectID. An empty
// credentialsFile uses application default credentials.
func OpenSecretManager(ctx context.Context, projectID, credentialsFile string) (*SecretManager, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("store: secretmanager needs a project id in store.dsn")
	}
	var opts []option.ClientOption
	if f := strings.TrimSpace(credentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: secretmanager.NewClient: %w", err)
	}
	return newSecretManager(client, projectID), nil
}

func newSecretManager(client secretClient, projectID string) *SecretManager {
	return &SecretManager{client: client, projectID: projectID}
}

func secretID(name string) string { return secretIDPrefix + name }

func secretName(projectID, name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", projectID, secretID(name))
}

func latestVersionName(projectID, name string) string {
	return secretName(projectID, name) + "/versions/latest"
}

// load reads the latest session object. A missing secret is an empty session.
func (s *SecretManager) load(ctx context.Context) (map[string]string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: latestVersionName(s.projectID, sessionSecret),
	})
	if status.Code(err) == codes.NotFound {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: AccessSecretVersion: %w", err)
	}
	entries := map[string]string{}
	if resp == nil || resp.Payload == nil || len(resp.Payload.Data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(resp.Payload.Data, &entries); err != nil {
		return nil, fmt.Errorf("store: decode session secret: %w", err)
	}
	return entries, nil
}

// save writes entries as a new version, creating the secret when needed.
func (s *SecretManager) save(ctx context.Context, entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("store: encode session secret: %w", err)
	}
	if err := s.ensureSecret(ctx); err != nil {
		return err
	}
	_, err = s.client.AddSecretVersion(ctx, &secretspb.AddSecretVersionRequest{
		Parent:  secretName(s.projectID, sessionSecret),
		Payload: &secretspb.SecretPayload{Data: data},
	})
	if err != nil {
		return fmt.Errorf("store: AddSecretVersion: %w", err)
	}
	return nil
}

// Get reads key from the latest session version.
func (s *SecretManager) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	v, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SetMany merges kv into the session and writes it as one version.
func (s *SecretManager) SetMany(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	for k, v := range kv {
		entries[k] = v
	}
	return s.save(ctx, entries)
}

func (s *SecretManager) ensureSecret(ctx context.Context) error {
	name := secretName(s.projectID, sessionSecret)
	_, err := s.client.GetSecret(ctx, &secretspb.GetSecretRequest{Name: name})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("store: GetSecret: %w", err)
	}
	_, err = s.client.CreateSecret(ctx, &secretspb.CreateSecretRequest{
		Parent:   "projects/" + s.projectID,
		SecretId: secretID(sessionSecret),
		Secret: &secretspb.Secret{
			Replication: &secretspb.Replication{
				Replication: &secretspb.Replication_Automatic_{
					Automatic: &secretspb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("store: CreateSecret: %w", err)
	}
	return nil
}

// Delete removes keys. When nothing is left the secret is deleted with all
// of its versions, so no earlier key material stays behind.
func (s *SecretManager) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := entries[k]; ok {
			delete(entries, k)
			changed = true
		}
	}
	if len(entries) == 0 {
		err := s.client.DeleteSecret(ctx, &secretspb.DeleteSecretRequest{Name: secretName(s.projectID, sessionSecret)})
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("store: DeleteSecret: %w", err)
		}
		return nil
	}
	if !changed {
		return nil
	}
	return s.save(ctx, entries)
}

// Close closes the client.
func (s *SecretManager) Close() error {
	return s.client.Close()
}
