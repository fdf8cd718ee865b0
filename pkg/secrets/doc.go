// Package secrets derives purpose-bound keys from a single master secret.
//
// HKDF-SHA256 gives every purpose (session signing, link signing, ...) its own
// 32-byte key, so leaking or rotating one derived key never exposes another.
//
//	master, err := secrets.ParseMasterKey(os.Getenv("AUTH_SECRET"))
//	sessionKey, err := secrets.DeriveKey(master, secrets.PurposeSessionSigning)
package secrets
