// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"errors"
	"testing"

	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeSecrets keeps secret versions in memory.
type fakeSecrets struct {
	versions map[string][][]byte
	failAdd  error
	closed   bool
}

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{versions: map[string][][]byte{}}
}

func (f *fakeSecrets) AccessSecretVersion(_ context.Context, req *secretspb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretspb.AccessSecretVersionResponse, error) {
	name := req.Name[:len(req.Name)-len("/versions/latest")]
	v := f.versions[name]
	if len(v) == 0 {
		return nil, status.Error(codes.NotFound, "no version")
	}
	return &secretspb.AccessSecretVersionResponse{Payload: &secretspb.SecretPayload{Data: v[len(v)-1]}}, nil
}

func (f *fakeSecrets) AddSecretVersion(_ context.Context, req *secretspb.AddSecretVersionRequest, _ ...gax.CallOption) (*secretspb.SecretVersion, error) {
	if err := f.failAdd; err != nil {
		f.failAdd = nil
		return nil, err
	}
	if _, ok := f.versions[req.Parent]; !ok {
		return nil, status.Error(codes.NotFound, "no secret")
	}
	f.versions[req.Parent] = append(f.versions[req.Parent], req.Payload.Data)
	return &secretspb.SecretVersion{}, nil
}

func (f *fakeSecrets) GetSecret(_ context.Context, req *secretspb.GetSecretRequest, _ ...gax.CallOption) (*secretspb.Secret, error) {
	if _, ok := f.versions[req.Name]; !ok {
		return nil, status.Error(codes.NotFound, "no secret")
	}
	return &secretspb.Secret{Name: req.Name}, nil
}

func (f *fakeSecrets) CreateSecret(_ context.Context, req *secretspb.CreateSecretRequest, _ ...gax.CallOption) (*secretspb.Secret, error) {
	name := req.Parent + "/secrets/" + req.SecretId
	if _, ok := f.versions[name]; ok {
		return nil, status.Error(codes.AlreadyExists, "exists")
	}
	f.versions[name] = nil
	return &secretspb.Secret{Name: name}, nil
}

func (f *fakeSecrets) DeleteSecret(_ context.Context, req *secretspb.DeleteSecretRequest, _ ...gax.CallOption) error {
	if _, ok := f.versions[req.Name]; !ok {
		return status.Error(codes.NotFound, "no secret")
	}
	delete(f.versions, req.Name)
	return nil
}

func (f *fakeSecrets) Close() error {
	f.closed = true
	return nil
}

func TestSecretNames(t *testing.T) {
	if got := secretName("proj", sessionSecret); got != "projects/proj/secrets/mintmaster-session" {
		t.Fatalf("unexpected secret name %q", got)
	}
	if got := latestVersionName("proj", sessionSecret); got != "projects/proj/secrets/mintmaster-session/versions/latest" {
		t.Fatalf("unexpected version name %q", got)
	}
}

func TestOpenSecretManagerNeedsProject(t *testing.T) {
	if _, err := OpenSecretManager(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error for empty project id")
	}
}

func TestSecretManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSecrets()
	s := newSecretManager(fake, "proj")

	if _, err := s.Get(ctx, KeyPublicKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: %v", err)
	}
	if err := s.SetMany(ctx, map[string]string{KeyPublicKey: "pub", KeySecretKey: "sec"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if err := s.SetMany(ctx, map[string]string{KeyMintList: "[]"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	for k, want := range map[string]string{KeyPublicKey: "pub", KeySecretKey: "sec", KeyMintList: "[]"} {
		if got, err := s.Get(ctx, k); err != nil || got != want {
			t.Fatalf("Get(%s) = %q, %v", k, got, err)
		}
	}
	if n := len(fake.versions[secretName("proj", sessionSecret)]); n != 2 {
		t.Fatalf("expected one version per batch, got %d", n)
	}
	if err := s.Close(); err != nil || !fake.closed {
		t.Fatalf("Close did not close the client")
	}
}

func TestSecretManagerFailedBatchKeepsPreviousPair(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSecrets()
	s := newSecretManager(fake, "proj")
	if err := s.SetMany(ctx, map[string]string{KeyPublicKey: "old-pub", KeySecretKey: "old-sec"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	fake.failAdd = status.Error(codes.Unavailable, "backend down")
	if err := s.SetMany(ctx, map[string]string{KeyPublicKey: "new-pub", KeySecretKey: "new-sec"}); err == nil {
		t.Fatalf("expected the failed write to surface")
	}
	pub, _ := s.Get(ctx, KeyPublicKey)
	sec, _ := s.Get(ctx, KeySecretKey)
	if pub != "old-pub" || sec != "old-sec" {
		t.Fatalf("failed batch left a mixed pair: %q/%q", pub, sec)
	}
}

func TestSecretManagerDeleteRemovesSecretWhenEmpty(t *testing.T) {
	ctx := context.Background()
	fake := newFakeSecrets()
	s := newSecretManager(fake, "proj")
	if err := s.SetMany(ctx, map[string]string{KeyPublicKey: "pub", KeySecretKey: "sec", KeyMintList: "[]"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	if err := s.Delete(ctx, KeyPublicKey, KeySecretKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, KeySecretKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("secret key still readable: %v", err)
	}
	if got, _ := s.Get(ctx, KeyMintList); got != "[]" {
		t.Fatalf("unrelated key lost: %q", got)
	}

	if err := s.Delete(ctx, KeyMintList); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := fake.versions[secretName("proj", sessionSecret)]; ok {
		t.Fatalf("empty session must delete the secret and its versions")
	}
	if err := s.Delete(ctx, KeyMintList); err != nil {
		t.Fatalf("Delete on a missing secret: %v", err)
	}
}
