// Package sshutil generates and loads the ed25519 key pairs used for host
// access.
package sshutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

const (
	privateKeyName = "id_ed25519"
	publicKeyName  = "id_ed25519.pub"
)

// KeyPair describes a generated key on disk.
type KeyPair struct {
	PrivateKeyPath string
	PublicKeyPath  string
	// AuthorizedKey is the single-line public key in authorized_keys form.
	AuthorizedKey string
	// Fingerprint is the SHA256 fingerprint of the public key.
	Fingerprint string
}

// GenerateKeyPair creates a fresh ed25519 key pair under dir, writing the
// private key in OpenSSH PEM form with 0600 permissions and the public key
// alongside it. The comment is appended to the authorized_keys line.
func GenerateKeyPair(dir, comment string) (*KeyPair, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	pemBlock, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}

	privPath := filepath.Join(dir, privateKeyName)
	if err := os.WriteFile(privPath, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("convert public key: %w", err)
	}

	authorized := string(ssh.MarshalAuthorizedKey(sshPub))
	authorized = authorized[:len(authorized)-1] // trim trailing newline
	if comment != "" {
		authorized = authorized + " " + comment
	}

	pubPath := filepath.Join(dir, publicKeyName)
	if err := os.WriteFile(pubPath, []byte(authorized+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write public key: %w", err)
	}

	return &KeyPair{
		PrivateKeyPath: privPath,
		PublicKeyPath:  pubPath,
		AuthorizedKey:  authorized,
		Fingerprint:    ssh.FingerprintSHA256(sshPub),
	}, nil
}

// LoadPrivateKey parses the private key at path into a signer usable for
// client authentication.
func LoadPrivateKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return signer, nil
}

// LoadAuthorizedKey reads the public key at path and returns its
// authorized_keys line.
func LoadAuthorizedKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read public key: %w", err)
	}
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return "", fmt.Errorf("parse public key: %w", err)
	}
	line := string(ssh.MarshalAuthorizedKey(pub))
	line = line[:len(line)-1]
	if comment != "" {
		line = line + " " + comment
	}
	return line, nil
}
