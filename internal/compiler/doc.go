// Package compiler turns CUE automaton definitions into ir.AutomatonSpec
// values, validates them, and builds fsm engines from them.
//
// Definition format:
//
//	automaton: aab: {
//		start:  "S0"
//		strict: true
//		states: S1: final: true
//		connections: [
//			{from: "S0", to: "S1", rule: "a"},
//			{from: "S1", to: "S2", rule: "a"},
//			{from: "S2", to: "S1", rule: "b"},
//		]
//	}
package compiler
