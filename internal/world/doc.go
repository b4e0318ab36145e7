// Package world is a small 3D rigid body world that the grabber runs
// against. Bodies are spheres that fall under gravity onto a floor plane.
// A Chipmunk space indexes their footprint on the horizontal plane so
// capsule overlap queries only test nearby bodies.
package world
