// Package pkg holds the libraries behind wrapdoc, the document generator for
// a vehicle wrap shop.
//
// # Overview
//
// wrapdoc turns a job record (a flat JSON file written by the shop's job
// tracker) into one of four US Letter documents: a customer estimate, a
// customer invoice, an internal sales order and an installer work order.
// The pkg directory is organized into four areas:
//
//  1. Domain - [job] records, [money] amounts, [finance] figures and the
//     [shop] profile
//  2. Rendering - the [render/layout] flow engine, [render/sink] surfaces,
//     [render/styles] and the per-type assemblers in [document]
//  3. Infrastructure - [cache], [storage], [config], [observability]
//  4. Integrations - review counts and mockup images in [integrations]
//
// # Architecture
//
// The data flow of one render:
//
//	job record (file, stdin or request body)
//	         ↓
//	    [job] package (decode + validate)
//	         ↓
//	    [finance] package (tax, COGS, margin tier, commission, balance)
//	         ↓
//	    [document] package (assemble sections onto a flow)
//	         ↓
//	    [render/sink] package (PDF bytes or JSON draw log)
//	         ↓
//	    [storage] package (local file or S3)
//
// [pipeline] strings the stages together and caches encoded documents.
//
// # Quick Start
//
//	env, _ := document.NewEnv()
//	runner := pipeline.NewRunner(env, nil, nil, nil)
//	rec, _ := job.LoadFile("INV-0001.json")
//	res, _ := runner.Execute(ctx, rec, pipeline.Options{
//	    Type:   job.Invoice,
//	    Output: "INV-0001.pdf",
//	})
//
// Money is never held in float64: [money.Amount] and [finance] use
// shopspring/decimal throughout and round half away from zero only when
// printing.
package pkg
