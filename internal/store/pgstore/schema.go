package pgstore

// constraint names used to map violations back to domain errors
const (
	constraintMesocyclePosition = "mesocycle_program_position_key"
	constraintMicrocycleWeek    = "microcycle_mesocycle_week_key"
	constraintSessionDay        = "training_session_microcycle_day_key"
	constraintMesocycleProgram  = "mesocycle_program_id_fkey"
	constraintMicrocycleMeso    = "microcycle_mesocycle_id_fkey"
	constraintSessionMicro      = "training_session_microcycle_id_fkey"
	constraintAssocObjective    = "objective_association_objective_id_fkey"
)

const Schema = `
CREATE TABLE IF NOT EXISTS volume_landmark
(
    user_id        VARCHAR          NOT NULL,
    muscle_group   VARCHAR          NOT NULL,
    mev            DOUBLE PRECISION NOT NULL,
    mav            DOUBLE PRECISION NOT NULL,
    mrv            DOUBLE PRECISION NOT NULL,
    current_volume DOUBLE PRECISION NOT NULL DEFAULT 0,
    updated_at     TIMESTAMPTZ      NOT NULL,
    PRIMARY KEY (user_id, muscle_group),
    CONSTRAINT volume_landmark_order CHECK (0 <= mev AND mev <= mav AND mav <= mrv),
    CONSTRAINT volume_landmark_current CHECK (current_volume >= 0)
);

CREATE TABLE IF NOT EXISTS program
(
    id                 VARCHAR PRIMARY KEY,
    user_id            VARCHAR     NOT NULL,
    name               VARCHAR     NOT NULL,
    periodization_type VARCHAR     NOT NULL DEFAULT '',
    start_date         TIMESTAMPTZ NOT NULL,
    goal               VARCHAR     NOT NULL DEFAULT '',
    training_level     VARCHAR     NOT NULL DEFAULT '',
    frequency          INTEGER     NOT NULL CHECK (frequency > 0),
    structure          JSONB       NOT NULL DEFAULT '{}',
    created_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_program_user ON program (user_id, created_at);

CREATE TABLE IF NOT EXISTS mesocycle
(
    id                       VARCHAR PRIMARY KEY,
    program_id               VARCHAR          NOT NULL,
    position                 INTEGER          NOT NULL CHECK (position >= 0),
    phase                    VARCHAR          NOT NULL DEFAULT '',
    length_in_weeks          INTEGER          NOT NULL CHECK (length_in_weeks > 0),
    target_volume_multiplier DOUBLE PRECISION NOT NULL DEFAULT 0,
    target_intensity_pct     DOUBLE PRECISION NOT NULL DEFAULT 0,
    CONSTRAINT mesocycle_program_id_fkey FOREIGN KEY (program_id) REFERENCES program (id) ON DELETE CASCADE,
    CONSTRAINT mesocycle_program_position_key UNIQUE (program_id, position)
);

CREATE TABLE IF NOT EXISTS microcycle
(
    id           VARCHAR PRIMARY KEY,
    mesocycle_id VARCHAR NOT NULL,
    week_number  INTEGER NOT NULL CHECK (week_number > 0),
    is_deload    BOOLEAN NOT NULL DEFAULT FALSE,
    phase        VARCHAR NOT NULL DEFAULT '',
    start_date   TIMESTAMPTZ,
    CONSTRAINT microcycle_mesocycle_id_fkey FOREIGN KEY (mesocycle_id) REFERENCES mesocycle (id) ON DELETE CASCADE,
    CONSTRAINT microcycle_mesocycle_week_key UNIQUE (mesocycle_id, week_number)
);

CREATE TABLE IF NOT EXISTS training_session
(
    id                       VARCHAR PRIMARY KEY,
    microcycle_id            VARCHAR          NOT NULL,
    day_of_week              INTEGER          NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
    target_intensity_pct     DOUBLE PRECISION NOT NULL DEFAULT 0,
    target_volume_multiplier DOUBLE PRECISION NOT NULL DEFAULT 0,
    exercises                JSONB            NOT NULL DEFAULT '[]',
    CONSTRAINT training_session_microcycle_id_fkey FOREIGN KEY (microcycle_id) REFERENCES microcycle (id) ON DELETE CASCADE,
    CONSTRAINT training_session_microcycle_day_key UNIQUE (microcycle_id, day_of_week)
);

CREATE TABLE IF NOT EXISTS objective
(
    id           VARCHAR PRIMARY KEY,
    user_id      VARCHAR          NOT NULL,
    description  VARCHAR          NOT NULL,
    metric       VARCHAR          NOT NULL DEFAULT '',
    target_value DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ      NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_objective_user ON objective (user_id, created_at);

CREATE TABLE IF NOT EXISTS objective_association
(
    seq          BIGSERIAL,
    objective_id VARCHAR     NOT NULL,
    entity_type  VARCHAR     NOT NULL,
    entity_id    VARCHAR     NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (objective_id, entity_type, entity_id),
    CONSTRAINT objective_association_objective_id_fkey FOREIGN KEY (objective_id) REFERENCES objective (id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS ix_objective_association_entity ON objective_association (entity_type, entity_id, seq);
`
