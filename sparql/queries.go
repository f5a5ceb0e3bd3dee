package sparql

import "fmt"

const cpmetaPrefix = "prefix cpmeta: <http://meta.icos-cp.eu/ontologies/cpmeta/>\n"

// objectInfoQuery interrogates one digital object: its specification, row
// count, and (when the dataset carries optional columns) the realized
// column-name list.
func objectInfoQuery(pid string) string {
	return cpmetaPrefix + fmt.Sprintf(`select ?dobj ?objSpec ?nRows ?columnNames
where {
	values ?dobj { <%s> }
	?dobj cpmeta:hasObjectSpec ?objSpec .
	?dobj cpmeta:hasNumberOfRows ?nRows .
	optional { ?dobj cpmeta:hasActualColumnNames ?columnNames }
}`, pid)
}

// schemaDetailQuery lists the declared columns of an object specification:
// name, value format, and whether the name is a pattern, plus the
// specification's binary format family.
func schemaDetailQuery(objSpec string) string {
	return cpmetaPrefix + fmt.Sprintf(`select ?objFormat ?colName ?valFormat ?isRegex
where {
	<%s> cpmeta:containsDataset ?dataset .
	<%s> cpmeta:hasFormat ?objFormat .
	?dataset cpmeta:hasColumn ?column .
	?column cpmeta:hasColumnTitle ?colName .
	?column cpmeta:hasValueFormat ?valFormat .
	optional { ?column cpmeta:isRegexColumn ?isRegex }
}`, objSpec, objSpec)
}

// stationQuery resolves the station a data object was acquired at.
func stationQuery(pid string) string {
	return cpmetaPrefix + fmt.Sprintf(`select ?stationName ?latitude ?longitude ?elevation
where {
	<%s> cpmeta:wasAcquiredBy / cpmeta:wasPerformedAt ?station .
	?station cpmeta:hasName ?stationName .
	optional { ?station cpmeta:hasLatitude ?latitude }
	optional { ?station cpmeta:hasLongitude ?longitude }
	optional { ?station cpmeta:hasElevation ?elevation }
}`, pid)
}

// citationQuery fetches the curated citation string for one object.
func citationQuery(pid string) string {
	return cpmetaPrefix + fmt.Sprintf(`select ?cit
where {
	<%s> cpmeta:hasCitationString ?cit .
}`, pid)
}
