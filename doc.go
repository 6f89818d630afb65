/*
Package tpusim provides an event driven simulation kernel for digital logic
and the tools to describe the pieces of a toy processor with it.

A circuit is made of Signals and Processes registered with a Scheduler.
Signals are fixed width bit vectors with a committed value and a pending
one. Processes are either combinational (evaluated whenever one of their
input signals changes) or clocked (evaluated on a clock edge).

Within a time instant the Scheduler runs delta rounds: every triggered
process is evaluated once against committed values, then all pending writes
are committed at once. Rounds repeat until no signal changes. Time then
advances to the next timed event (see After and WriteAfter), typically a
clock toggle.

	s := tpusim.New(tpusim.Config{})
	a, b := s.NewSignal("a", 8), s.NewSignal("b", 8)
	s.Combinational("inc", func() error {
		b.Write(a.Read() + 1)
		return nil
	}, a)
	if err := s.Init(); err != nil {
		// ...
	}
	s.WriteAfter(a, 41, 10)
	err := s.Run(context.Background(), 100) // b.Read() == 42

The library parts (memories, ALU, clock generator) live in package hwlib.

*/
package tpusim
