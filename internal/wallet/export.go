package wallet

import (
	"fmt"
	"os"
	"path/filepath"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/google/uuid"
)

// Export writes the private key to path as a password-encrypted JSON
// keystore (geth keystore v3, scrypt KDF). This is the only path by which
// the key leaves process memory in non-ephemeral form.
func (s *Signer) Export(password, path string) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generating keystore id: %w", err)
	}
	key := &gethkeystore.Key{
		Id:         id,
		Address:    s.address,
		PrivateKey: s.key,
	}

	encrypted, err := gethkeystore.EncryptKey(key, password, gethkeystore.StandardScryptN, gethkeystore.StandardScryptP)
	if err != nil {
		return fmt.Errorf("encrypting key: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating keystore dir: %w", err)
		}
	}
	if err := os.WriteFile(path, encrypted, 0o600); err != nil {
		return fmt.Errorf("writing keystore: %w", err)
	}
	return nil
}

// FromKeystore decrypts an encrypted JSON keystore file into a Signer.
func FromKeystore(path, password string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keystore: %w", err)
	}
	key, err := gethkeystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("decrypting keystore: %w", err)
	}
	return fromKey(key.PrivateKey), nil
}
