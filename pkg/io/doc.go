// Package io reads and writes the JSON documents exchanged with hosts.
//
// # Bundles
//
// A bundle carries everything needed to build and resolve a hierarchy:
//
//	{
//	  "concepts": [{"concept_id": 1, "concept_name": "Diabetes", "total_cnt": 10}, ...],
//	  "edges": [[1, 2], [1, 3]],
//	  "special_concepts": {"addedCids": [2]},
//	  "concept_ids": [1, 2, 3],
//	  "config": {"expandAll": true}
//	}
//
// Concept ids may be JSON numbers or strings. Use [ReadBundle] or
// [ImportBundle] to decode, and [Bundle.Categories] for the effective
// category memberships.
//
// # Graphs
//
// [WriteGraph] and [ReadGraph] serialize a dag.DAG as node and edge arrays:
//
//	{
//	  "nodes": [{"id": "A", "meta": {"label": "Diabetes"}}, {"id": "unlinked", "kind": "synthetic"}],
//	  "edges": [{"from": "A", "to": "B"}]
//	}
//
// Rows appear only when non-zero.
package io
