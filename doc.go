// Package treeviz grows classification trees one decision at a time so that
// every step of the construction can be observed, replayed and rendered.
//
// A build is a breadth-first queue of nodes. Each call to Builder.Next decides
// the node at the head of the queue and reports it as an event: the node was
// split into two children, the node became a leaf, or the queue is empty and
// the build is done. The caller owns the builder and advances it at its own
// pace, so a viewer can pause after any event and draw the partial tree.
//
// # Installation
//
//	go get github.com/YuminosukeSato/treeviz
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/treeviz/sklearn/tree"
//	)
//
//	func main() {
//	    samples := []tree.Sample{
//	        {Features: []float64{0}, Label: "A"},
//	        {Features: []float64{1}, Label: "A"},
//	        {Features: []float64{10}, Label: "B"},
//	        {Features: []float64{11}, Label: "B"},
//	    }
//
//	    b, err := tree.BuildTreeStepwise(samples, 3, 2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for {
//	        ev, ok := b.Next()
//	        if !ok {
//	            break
//	        }
//	        fmt.Println(ev) // split(1), leaf(2), leaf(3), done
//	    }
//
//	    label, _, _ := tree.Classify(b.Root(), []float64{5.5})
//	    fmt.Println(label) // A: values equal to a threshold go left
//	}
//
// # Packages
//
//   - sklearn/tree: impurity, split search, the stepwise builder, classification
//     and a scikit-learn style DecisionTreeClassifier
//   - viz: event stepping, event tables, text trees and partition plots
//   - dataset: CSV and JSON readers, demo data sets
//   - metrics: accuracy and confusion matrices
//   - core/model: estimator interfaces, fitted state and JSON persistence
//   - core/parallel: chunked parallel loops
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// The treeviz command in cmd/treeviz wraps all of the above.
//
// # Logging
//
// The library logs through pkg/log and is silent until a logger is installed:
//
//	log.SetLogger(log.NewConsoleLogger(os.Stderr, log.LevelDebug))
//
// At debug level the builder emits one record per event.
package treeviz
