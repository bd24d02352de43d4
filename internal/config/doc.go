// Package config manages git-stack configuration and state persistence.
//
// It handles:
//   - Repository-specific configuration under <gitDir>/gitstack/
//   - Global user configuration (~/.gitstack.yaml, GITSTACK_* env)
//   - Resume state for restacks interrupted by rebase conflicts
package config
