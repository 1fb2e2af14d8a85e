/*
Package viz consumes tree construction events and renders them.

A Stepper advances a tree.Builder one event at a time and keeps a Row per
event, which is the state an interactive viewer needs to replay a build.
The rows can be written as an event table, the current tree as indented
text, and the partition of a two-feature plane as a gonum plot.

	b, _ := tree.BuildTreeStepwise(samples, 3, 2)
	s := viz.NewStepper(b)
	s.Run(4)
	viz.WriteEventTable(os.Stdout, s.Rows())
	viz.WriteTree(os.Stdout, s.Root())

Renderers only read the tree; they can run between steps of a build.
*/
package viz
