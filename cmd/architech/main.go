// Copyright 2024 The Architech Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/go-logr/logr/funcr"
	"github.com/pterm/pterm"

	"github.com/thearchitech/engine/cmd/architech/new"
)

type cli struct {
	Quiet bool `short:"q" name:"quiet" help:"Suppress all but error output."`

	New new.Cmd `cmd:"" help:"Compose and generate a project from a genome file."`
}

func (c *cli) AfterApply(kctx *kong.Context) error {
	if c.Quiet {
		pterm.DisableOutput()
	}
	kctx.Bind(pterm.DefaultBasicText.WithWriter(kctx.Stdout))

	if c.Quiet {
		kctx.Bind(logging.NewNopLogger())
		return nil
	}
	kctx.Bind(logging.NewLogrLogger(funcr.New(func(prefix, args string) {
		pterm.Debug.Println(prefix, args)
	}, funcr.Options{})))
	return nil
}

func main() {
	c := cli{}
	parser := kong.Must(&c,
		kong.Name("architech"),
		kong.Description("Compose applications from a genome against a modular marketplace."),
		kong.UsageOnError(),
	)

	kongCtx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		defer cancel()
		<-sigCh
		kongCtx.Exit(1)
	}()

	kongCtx.BindTo(ctx, (*context.Context)(nil))
	kongCtx.FatalIfErrorf(kongCtx.Run())
}
