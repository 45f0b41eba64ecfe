/*
Package spiro is the curve engine behind the spirograph drawing.

A Params value holds the shape (a, b, c, all bounded by ParamMax) and the
presentation (colour, stroke width) of one curve. Sample turns a shape into
the ordered point sequence of the hypotrochoid-style curve

	k = b·t/a
	x(t) = (a+b)·cos(k) − c·cos(t+k)
	y(t) = (a+b)·sin(k) − c·sin(t+k)

over t in [0, 2π·a) at a fixed step of 0.001 radians.

Hosts that are single threaded can hold a Params and a Sampler directly.
Hosts that serve requests concurrently go through a Session, which guards
the model and hands out Frame snapshots.
*/
package spiro
