// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package rules

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/skydive-project/go-debouncer"

	"github.com/sentinelops/statedb/pkg/util/log"
)

// PolicyExtension is the file extension of policy files
const PolicyExtension = ".policy"

// DefaultPolicyFile always loads first so its roles win ID conflicts and
// other files only extend it
const DefaultPolicyFile = "default" + PolicyExtension

const defaultWatchDebounceDelay = 500 * time.Millisecond

// PoliciesDirProvider loads policies from all the policy files of a directory
type PoliciesDirProvider struct {
	PoliciesDir string

	schemaValidation     bool
	onNewPoliciesReadyCb func()
	cancelFnc            context.CancelFunc
	watcher              *fsnotify.Watcher
	debouncer            *debouncer.Debouncer
	debounceDelay        time.Duration
	watchedFiles         []string
}

var _ PolicyProvider = (*PoliciesDirProvider)(nil)

func (p *PoliciesDirProvider) getPolicyFiles() ([]string, error) {
	// os.ReadDir returns entries sorted by filename, which fixes the order
	// in which policies override each other
	files, err := os.ReadDir(p.PoliciesDir)
	if err != nil {
		return nil, err
	}

	var policyFiles []string
	for _, policyPath := range files {
		name := policyPath.Name()
		if filepath.Ext(name) == PolicyExtension {
			policyFiles = append(policyFiles, filepath.Join(p.PoliciesDir, name))
		}
	}

	// the default policy file goes first whatever its sort position
	sort.SliceStable(policyFiles, func(i, j int) bool {
		return filepath.Base(policyFiles[i]) == DefaultPolicyFile && filepath.Base(policyFiles[j]) != DefaultPolicyFile
	})

	return policyFiles, nil
}

func (p *PoliciesDirProvider) loadPolicy(filename string) (*Policy, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &ErrPolicyLoad{Name: filename, Err: err}
	}
	defer f.Close()

	return LoadPolicy(filepath.Base(filename), PolicyProviderTypeDir, f, p.schemaValidation)
}

// LoadPolicies implements the policy provider interface
func (p *PoliciesDirProvider) LoadPolicies() ([]*Policy, *multierror.Error) {
	var errs *multierror.Error
	var policies []*Policy

	policyFiles, err := p.getPolicyFiles()
	if err != nil {
		return nil, multierror.Append(errs, err)
	}

	if p.watcher != nil {
		for _, watched := range p.watchedFiles {
			_ = p.watcher.Remove(watched)
		}
		p.watchedFiles = p.watchedFiles[0:0]
	}

	for _, filename := range policyFiles {
		policy, err := p.loadPolicy(filename)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		if policy != nil {
			policies = append(policies, policy)
		}

		if p.watcher != nil {
			if err := p.watcher.Add(filename); err != nil {
				errs = multierror.Append(errs, err)
			} else {
				p.watchedFiles = append(p.watchedFiles, filename)
			}
		}
	}

	return policies, errs
}

// SetOnNewPoliciesReadyCb implements the policy provider interface. The
// callback has to be set before Start is called.
func (p *PoliciesDirProvider) SetOnNewPoliciesReadyCb(cb func()) {
	p.onNewPoliciesReadyCb = cb
}

// Start runs the directory watcher if watching was requested
func (p *PoliciesDirProvider) Start() {
	if p.watcher == nil {
		return
	}

	p.debouncer = debouncer.New(p.debounceDelay, p.notifyPoliciesReady)
	p.debouncer.Start()

	var ctx context.Context
	ctx, p.cancelFnc = context.WithCancel(context.Background())
	go p.watch(ctx)
}

func (p *PoliciesDirProvider) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) > 0 &&
				filepath.Ext(event.Name) == PolicyExtension {
				p.debouncer.Call()
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("policies dir watcher error: %v", err)
		}
	}
}

func (p *PoliciesDirProvider) notifyPoliciesReady() {
	if p.onNewPoliciesReadyCb != nil {
		p.onNewPoliciesReadyCb()
	}
}

// Close implements the policy provider interface
func (p *PoliciesDirProvider) Close() error {
	if p.cancelFnc != nil {
		p.cancelFnc()
	}

	if p.debouncer != nil {
		p.debouncer.Stop()
	}

	if p.watcher != nil {
		return p.watcher.Close()
	}

	return nil
}

// Type implements the policy provider interface
func (p *PoliciesDirProvider) Type() string {
	return PolicyProviderTypeDir
}

// NewPoliciesDirProvider returns a new policy directory provider
func NewPoliciesDirProvider(policiesDir string, watch bool, debounceDelay time.Duration, schemaValidation bool) (*PoliciesDirProvider, error) {
	p := &PoliciesDirProvider{
		PoliciesDir:      policiesDir,
		schemaValidation: schemaValidation,
	}

	if watch {
		var err error
		if p.watcher, err = fsnotify.NewWatcher(); err != nil {
			return nil, err
		}

		if err := p.watcher.Add(policiesDir); err != nil {
			_ = p.watcher.Close()
			return nil, err
		}

		if debounceDelay <= 0 {
			debounceDelay = defaultWatchDebounceDelay
		}
		p.debounceDelay = debounceDelay
	}

	return p, nil
}
