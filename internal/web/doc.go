// Package web hosts the animation in a browser through syscall/js: a 2D
// canvas surface, requestAnimationFrame scheduling, setTimeout debounce
// timers and DOM listeners for resize and toggle. It only builds for
// js/wasm.
package web
